package routing

import (
	"context"
	"strings"

	"callerdesk-console/internal/calls"
	"callerdesk-console/pkg/logger"
)

// InboundCall is one inbound-call event as delivered by the telephony trigger
// or the console's manual trigger.
type InboundCall struct {
	WorkspaceID    string `json:"workspace_id"`
	Credential     string `json:"-"`
	CallerNumber   string `json:"caller_number"`
	Deskphone      string `json:"deskphone"`
	ProviderCallID string `json:"provider_call_id,omitempty"`
}

// OutcomeReason names which of the three terminal states a call ended in.
type OutcomeReason string

const (
	ReasonRedirected     OutcomeReason = "redirected"
	ReasonNoMatch        OutcomeReason = "no_history_match"
	ReasonRedirectFailed OutcomeReason = "redirect_failed"
)

const msgProceedNormally = "Call proceeding normally"

// Outcome is what HandleIncomingCall reports. A failed redirect looks the same
// as no match to the caller apart from Reason.
type Outcome struct {
	Routed    bool          `json:"routed"`
	RoutedTo  string        `json:"routed_to,omitempty"`
	AgentName string        `json:"agent_name,omitempty"`
	Message   string        `json:"message"`
	Reason    OutcomeReason `json:"reason"`

	Decision Decision `json:"decision"`
}

// HistorySource supplies outbound call history. It must fail soft.
type HistorySource interface {
	FetchOutboundHistory(ctx context.Context, authCode, number string, pageSize int) []calls.CallRecord
}

// RedirectInvoker places the redirect call. It must not fail with an error.
type RedirectInvoker interface {
	Redirect(ctx context.Context, authCode, incomingNumber, agentNumber, deskphone string) RedirectOutcome
}

// Recorder observes every terminal outcome (audit, metrics).
// Implementations must not block the call for long and must not panic.
type Recorder interface {
	RecordOutcome(ctx context.Context, call InboundCall, out Outcome)
}

// Recorders fans an outcome out to several recorders.
type Recorders []Recorder

func (rs Recorders) RecordOutcome(ctx context.Context, call InboundCall, out Outcome) {
	for _, r := range rs {
		if r != nil {
			r.RecordOutcome(ctx, call, out)
		}
	}
}

type Options struct {
	Matcher  NumberMatcher
	PageSize int
	Recorder Recorder
}

// Router runs the inbound pipeline: history fetch, decide, redirect.
// Each call is one sequential pass; Router holds no per-call state.
type Router struct {
	history    HistorySource
	redirector RedirectInvoker
	matcher    NumberMatcher
	pageSize   int
	recorder   Recorder
}

func NewRouter(history HistorySource, redirector RedirectInvoker, opts Options) *Router {
	m := opts.Matcher
	if m == nil {
		m = ExactMatcher{}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = calls.DefaultHistoryPageSize
	}
	return &Router{
		history:    history,
		redirector: redirector,
		matcher:    m,
		pageSize:   pageSize,
		recorder:   opts.Recorder,
	}
}

// HandleIncomingCall routes one inbound call to the agent who last dialled
// the caller, if any. It never returns an error: history failures read as no
// match, and a failed redirect lets the call proceed un-redirected.
func (r *Router) HandleIncomingCall(ctx context.Context, call InboundCall) Outcome {
	call.CallerNumber = strings.TrimSpace(call.CallerNumber)
	call.Deskphone = strings.TrimSpace(call.Deskphone)

	log := logger.From(ctx).With(
		"workspace_id", call.WorkspaceID,
		"caller_number", call.CallerNumber,
		"provider_call_id", call.ProviderCallID,
	)

	var decision Decision
	if call.CallerNumber != "" && r.history != nil {
		history := r.history.FetchOutboundHistory(ctx, call.Credential, call.CallerNumber, r.pageSize)
		decision = Decide(history, call.CallerNumber, r.matcher)
	}

	if !decision.ShouldRedirect {
		log.Info("no prior agent for caller")
		return r.finish(ctx, call, Outcome{Message: msgProceedNormally, Reason: ReasonNoMatch, Decision: decision})
	}

	res := RedirectOutcome{Message: msgRedirectFailed}
	if r.redirector != nil {
		res = r.redirector.Redirect(ctx, call.Credential, call.CallerNumber, decision.AgentNumber, call.Deskphone)
	}
	if !res.Success {
		// The inbound call must not be blocked by a failed redirect.
		log.Warn("redirect failed; call proceeds normally",
			"agent_number", decision.AgentNumber,
			"redirect_message", res.Message,
		)
		return r.finish(ctx, call, Outcome{Message: msgProceedNormally, Reason: ReasonRedirectFailed, Decision: decision})
	}

	target := decision.AgentName
	if target == "" {
		target = decision.AgentNumber
	}
	log.Info("call redirected", "agent_number", decision.AgentNumber, "last_call_date", decision.LastCallDate)
	return r.finish(ctx, call, Outcome{
		Routed:    true,
		RoutedTo:  decision.AgentNumber,
		AgentName: decision.AgentName,
		Message:   "Call redirected to " + target,
		Reason:    ReasonRedirected,
		Decision:  decision,
	})
}

func (r *Router) finish(ctx context.Context, call InboundCall, out Outcome) Outcome {
	if r.recorder != nil {
		r.recorder.RecordOutcome(ctx, call, out)
	}
	return out
}
