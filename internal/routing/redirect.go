package routing

import (
	"context"

	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/pkg/logger"
)

const (
	msgRedirectOK     = "Call redirected successfully"
	msgRedirectFailed = "Failed to redirect call"
)

// RedirectOutcome is the result of one redirect attempt.
type RedirectOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ClickToCaller is the slice of the CallerDesk client the redirector needs.
type ClickToCaller interface {
	ClickToCall(ctx context.Context, authCode string, req callerdesk.ClickToCallRequest) (callerdesk.Envelope, error)
}

// Redirector re-homes an inbound call onto an agent with a click-to-call
// request: the agent is dialled first (party A) and bridged to the caller
// (party B) once they answer.
type Redirector struct {
	api ClickToCaller
}

func NewRedirector(api ClickToCaller) *Redirector {
	return &Redirector{api: api}
}

// Redirect never returns an error; every failure becomes Success=false.
func (r *Redirector) Redirect(ctx context.Context, authCode, incomingNumber, agentNumber, deskphone string) RedirectOutcome {
	if r == nil || r.api == nil {
		return RedirectOutcome{Success: false, Message: msgRedirectFailed}
	}

	env, err := r.api.ClickToCall(ctx, authCode, callerdesk.ClickToCallRequest{
		PartyA:    agentNumber,
		PartyB:    incomingNumber,
		Deskphone: deskphone,
	})
	if err != nil {
		logger.From(ctx).Warn("redirect request failed", "agent_number", agentNumber, "err", err)
		return RedirectOutcome{Success: false, Message: msgRedirectFailed}
	}
	if !env.OK() {
		return RedirectOutcome{Success: false, Message: env.MessageOr(msgRedirectFailed)}
	}
	return RedirectOutcome{Success: true, Message: env.MessageOr(msgRedirectOK)}
}
