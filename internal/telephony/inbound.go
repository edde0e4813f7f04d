package telephony

import (
	"net/http"
	"strings"

	"callerdesk-console/internal/routing"
)

// InboundForm captures the inbound-call webhook fields the router needs.
// The trigger posts application/x-www-form-urlencoded; query parameters are
// accepted too so a plain GET callback works.
type InboundForm struct {
	CallID       string
	CallerNumber string
	Deskphone    string
	WorkspaceID  string
}

func ParseInboundCall(r *http.Request) (InboundForm, error) {
	if err := r.ParseForm(); err != nil {
		return InboundForm{}, err
	}
	callerNumber := field(r, "caller_num")
	if callerNumber == "" {
		// Live-call payloads name the caller msisdn.
		callerNumber = field(r, "msisdn")
	}
	return InboundForm{
		CallID:       field(r, "call_id"),
		CallerNumber: callerNumber,
		Deskphone:    field(r, "deskphone"),
		WorkspaceID:  field(r, "workspace_id"),
	}, nil
}

func field(r *http.Request, key string) string {
	return strings.TrimSpace(r.Form.Get(key))
}

func (f InboundForm) ToInboundCall(workspaceID, credential string) routing.InboundCall {
	return routing.InboundCall{
		WorkspaceID:    workspaceID,
		Credential:     credential,
		CallerNumber:   f.CallerNumber,
		Deskphone:      f.Deskphone,
		ProviderCallID: f.CallID,
	}
}
