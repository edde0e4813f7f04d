package callerdesk

import (
	"context"
	"net/url"
	"strconv"
)

const opCallLogs = "call_list_v2"

// Flow type values used by the call log API.
const (
	FlowInbound  = "IVR"
	FlowOutbound = "WEBOBD"
)

// CallLogFilter narrows a call_list_v2 query. Zero values are omitted.
type CallLogFilter struct {
	StartDate   string
	EndDate     string
	CurrentPage int
	PerPage     int
	CallResult  string
	FlowType    string
}

func (f CallLogFilter) values() url.Values {
	v := url.Values{}
	if f.StartDate != "" {
		v.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		v.Set("end_date", f.EndDate)
	}
	if f.CurrentPage > 0 {
		v.Set("current_page", strconv.Itoa(f.CurrentPage))
	}
	if f.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(f.PerPage))
	}
	if f.CallResult != "" {
		v.Set("callresult", f.CallResult)
	}
	if f.FlowType != "" {
		v.Set("Flow_type", f.FlowType)
	}
	return v
}

// CallLog is one row of call_list_v2 as sent on the wire.
type CallLog struct {
	ID              FlexString `json:"id"`
	SIDID           FlexString `json:"sid_id"`
	File            string     `json:"file"`
	Deskphone       string     `json:"deskphone"`
	CallerName      string     `json:"caller_name"`
	IsContact       FlexInt    `json:"is_contact"`
	MemberName      string     `json:"member_name"`
	CallerNum       string     `json:"caller_num"`
	CoinDeducted    string     `json:"coin_deducted"`
	MemberNum       string     `json:"member_num"`
	CallDate        string     `json:"call_date"`
	StartDateTime   string     `json:"startdatetime"`
	EndDateTime     string     `json:"enddatetime"`
	TotalDuration   FlexInt    `json:"total_duration"`
	TalkDuration    FlexInt    `json:"talk_duration"`
	RingingDuration FlexInt    `json:"ringing_duration"`
	Circle          string     `json:"circle"`
	KeyPressed      string     `json:"key_pressed"`
	Block           string     `json:"block"`
	CallResult      string     `json:"callresult"`
	CallStatus      string     `json:"callstatus"`
	GroupName       string     `json:"group_name"`
	FlowType        string     `json:"Flow_type"`
}

type CallLogsResponse struct {
	Envelope
	Result        []CallLog `json:"result"`
	CurrentPage   FlexInt   `json:"current_page"`
	Total         FlexInt   `json:"total"`
	AnsweredTotal FlexInt   `json:"answered_total"`
	NoAnswerTotal FlexInt   `json:"noanswer_total"`
	Voicemail     FlexInt   `json:"voicemail"`
}

// CallLogs lists call records matching f.
func (c *Client) CallLogs(ctx context.Context, authCode string, f CallLogFilter) (*CallLogsResponse, error) {
	var out CallLogsResponse
	if _, err := c.PostForm(ctx, opCallLogs, authCode, f.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
