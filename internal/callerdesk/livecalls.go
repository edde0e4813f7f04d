package callerdesk

import (
	"context"
	"net/url"
)

const (
	opLiveCalls   = "live_call_v2"
	opClickToCall = "click_to_call_v2"
)

type LiveCall struct {
	MSISDN         string     `json:"msisdn"`
	EntryDate      string     `json:"entrydate"`
	MemberNum      string     `json:"member_num"`
	CallStatus     string     `json:"callstatus"`
	LastUpdateDate string     `json:"lastupdatedate"`
	DIDNum         string     `json:"did_num"`
	SIDID          FlexString `json:"sid_id"`
	Channel        string     `json:"channel"`
	Deskphone      string     `json:"deskphone"`
	MemberName     string     `json:"member_name"`
	GroupName      string     `json:"group_name"`
}

type LiveCallsResponse struct {
	Envelope
	TotalLiveCalls FlexInt    `json:"total_live_calls"`
	LiveCalls      []LiveCall `json:"live_calls"`
}

// LiveCalls lists calls currently in progress.
func (c *Client) LiveCalls(ctx context.Context, authCode string) (*LiveCallsResponse, error) {
	var out LiveCallsResponse
	if _, err := c.GetQuery(ctx, opLiveCalls, authCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClickToCallRequest connects PartyA (dialed first) to PartyB once A answers.
// Deskphone is the caller-ID identity presented for the bridged call.
type ClickToCallRequest struct {
	PartyA    string
	PartyB    string
	Deskphone string
}

// ClickToCall places a connect request. The call is always tagged as
// originating from an inbound DID trunk (call_from_did=1).
func (c *Client) ClickToCall(ctx context.Context, authCode string, req ClickToCallRequest) (Envelope, error) {
	q := url.Values{}
	q.Set("calling_party_a", req.PartyA)
	q.Set("calling_party_b", req.PartyB)
	q.Set("deskphone", req.Deskphone)
	q.Set("call_from_did", "1")
	return c.GetQuery(ctx, opClickToCall, authCode, q, nil)
}
