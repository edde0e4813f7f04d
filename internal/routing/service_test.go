package routing

import (
	"context"
	"errors"
	"testing"

	"callerdesk-console/internal/audit"
	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/calls"
)

type stubHistory struct {
	records  []calls.CallRecord
	calls    int
	pageSize int
}

func (s *stubHistory) FetchOutboundHistory(_ context.Context, _, _ string, pageSize int) []calls.CallRecord {
	s.calls++
	s.pageSize = pageSize
	return s.records
}

type stubClickToCall struct {
	env  callerdesk.Envelope
	err  error
	reqs []callerdesk.ClickToCallRequest
}

func (s *stubClickToCall) ClickToCall(_ context.Context, _ string, req callerdesk.ClickToCallRequest) (callerdesk.Envelope, error) {
	s.reqs = append(s.reqs, req)
	return s.env, s.err
}

type captureRecorder struct {
	outcomes []Outcome
}

func (c *captureRecorder) RecordOutcome(_ context.Context, _ InboundCall, out Outcome) {
	c.outcomes = append(c.outcomes, out)
}

func aliceAndBob() []calls.CallRecord {
	return []calls.CallRecord{
		rec("555", "A1", "Alice", "2024-01-01T10:00:00Z"),
		rec("555", "A2", "Bob", "2024-01-02T09:00:00Z"),
	}
}

func TestHandleIncomingCall_Redirected(t *testing.T) {
	hist := &stubHistory{records: aliceAndBob()}
	api := &stubClickToCall{env: callerdesk.Envelope{Type: callerdesk.TypeSuccess}}
	recorder := &captureRecorder{}
	r := NewRouter(hist, NewRedirector(api), Options{Recorder: recorder})

	out := r.HandleIncomingCall(context.Background(), InboundCall{WorkspaceID: "w", Credential: "secret", CallerNumber: " 555 ", Deskphone: "0800"})
	if !out.Routed || out.RoutedTo != "A2" || out.AgentName != "Bob" || out.Reason != ReasonRedirected {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Message != "Call redirected to Bob" {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if hist.pageSize != calls.DefaultHistoryPageSize {
		t.Fatalf("expected default page size, got %d", hist.pageSize)
	}
	if len(api.reqs) != 1 {
		t.Fatalf("expected exactly one redirect, got %d", len(api.reqs))
	}
	want := callerdesk.ClickToCallRequest{PartyA: "A2", PartyB: "555", Deskphone: "0800"}
	if api.reqs[0] != want {
		t.Fatalf("agent must be party A: got %+v", api.reqs[0])
	}
	if len(recorder.outcomes) != 1 || recorder.outcomes[0].Reason != ReasonRedirected {
		t.Fatalf("expected outcome recorded once: %+v", recorder.outcomes)
	}
}

func TestHandleIncomingCall_MessageFallsBackToAgentNumber(t *testing.T) {
	hist := &stubHistory{records: []calls.CallRecord{rec("555", "A9", "", "2024-01-01T10:00:00Z")}}
	api := &stubClickToCall{env: callerdesk.Envelope{Type: callerdesk.TypeSuccess}}
	out := NewRouter(hist, NewRedirector(api), Options{}).HandleIncomingCall(context.Background(), InboundCall{CallerNumber: "555"})
	if out.Message != "Call redirected to A9" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestHandleIncomingCall_NoMatchSkipsRedirect(t *testing.T) {
	hist := &stubHistory{records: []calls.CallRecord{rec("777", "A1", "Alice", "2024-01-01T10:00:00Z")}}
	api := &stubClickToCall{}
	out := NewRouter(hist, NewRedirector(api), Options{PageSize: 20}).HandleIncomingCall(context.Background(), InboundCall{CallerNumber: "555"})

	if out.Routed || out.Reason != ReasonNoMatch || out.Message != "Call proceeding normally" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(api.reqs) != 0 {
		t.Fatalf("no redirect expected, got %d", len(api.reqs))
	}
	if hist.pageSize != 20 {
		t.Fatalf("expected configured page size, got %d", hist.pageSize)
	}
}

func TestHandleIncomingCall_EmptyHistoryIsSafe(t *testing.T) {
	api := &stubClickToCall{}
	out := NewRouter(&stubHistory{}, NewRedirector(api), Options{}).HandleIncomingCall(context.Background(), InboundCall{CallerNumber: "555"})
	if out.Routed || out.Decision.ShouldRedirect {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(api.reqs) != 0 {
		t.Fatalf("no redirect expected")
	}
}

func TestHandleIncomingCall_RedirectFailureIsNonFatal(t *testing.T) {
	cases := map[string]*stubClickToCall{
		"domain error":    {env: callerdesk.Envelope{Type: callerdesk.TypeError, Message: "agent busy"}},
		"transport error": {err: &callerdesk.TransportError{Op: "click_to_call_v2", StatusCode: 503}},
		"malformed":       {err: callerdesk.ErrMalformedEnvelope},
	}
	for name, api := range cases {
		t.Run(name, func(t *testing.T) {
			recorder := &captureRecorder{}
			r := NewRouter(&stubHistory{records: aliceAndBob()}, NewRedirector(api), Options{Recorder: recorder})
			out := r.HandleIncomingCall(context.Background(), InboundCall{CallerNumber: "555"})

			if out.Routed || out.Message != "Call proceeding normally" {
				t.Fatalf("unexpected outcome: %+v", out)
			}
			if out.Reason != ReasonRedirectFailed {
				t.Fatalf("expected redirect_failed reason, got %s", out.Reason)
			}
			if len(recorder.outcomes) != 1 {
				t.Fatalf("expected suppressed failure to be recorded")
			}
		})
	}
}

func TestHandleIncomingCall_BlankCallerSkipsHistory(t *testing.T) {
	hist := &stubHistory{records: []calls.CallRecord{rec("", "A1", "Alice", "2024-01-01T10:00:00Z")}}
	out := NewRouter(hist, NewRedirector(&stubClickToCall{}), Options{}).HandleIncomingCall(context.Background(), InboundCall{CallerNumber: "  "})
	if out.Routed || hist.calls != 0 {
		t.Fatalf("blank caller must not be routed: %+v (fetches=%d)", out, hist.calls)
	}
}

func TestRedirect_Messages(t *testing.T) {
	ctx := context.Background()

	ok := NewRedirector(&stubClickToCall{env: callerdesk.Envelope{Type: callerdesk.TypeSuccess}}).Redirect(ctx, "s", "555", "A1", "0800")
	if !ok.Success || ok.Message != "Call redirected successfully" {
		t.Fatalf("unexpected outcome: %+v", ok)
	}

	custom := NewRedirector(&stubClickToCall{env: callerdesk.Envelope{Type: callerdesk.TypeSuccess, Message: "Call initiated"}}).Redirect(ctx, "s", "555", "A1", "0800")
	if custom.Message != "Call initiated" {
		t.Fatalf("expected envelope message, got %q", custom.Message)
	}

	denied := NewRedirector(&stubClickToCall{env: callerdesk.Envelope{Type: callerdesk.TypeError, Message: "insufficient balance"}}).Redirect(ctx, "s", "555", "A1", "0800")
	if denied.Success || denied.Message != "insufficient balance" {
		t.Fatalf("unexpected outcome: %+v", denied)
	}

	broken := NewRedirector(&stubClickToCall{err: errors.New("dial tcp: refused")}).Redirect(ctx, "s", "555", "A1", "0800")
	if broken.Success || broken.Message != "Failed to redirect call" {
		t.Fatalf("unexpected outcome: %+v", broken)
	}

	var nilRedirector *Redirector
	if out := nilRedirector.Redirect(ctx, "s", "555", "A1", "0800"); out.Success {
		t.Fatalf("nil redirector must fail")
	}
}

func TestAuditAdapter_RecordsOutcome(t *testing.T) {
	repo := audit.NewMemoryRepo()
	adapter := AuditAdapter{Audit: audit.NewService(repo)}
	api := &stubClickToCall{env: callerdesk.Envelope{Type: callerdesk.TypeSuccess}}
	r := NewRouter(&stubHistory{records: aliceAndBob()}, NewRedirector(api), Options{Recorder: Recorders{adapter, nil}})

	ctx := WithClientIP(context.Background(), "10.0.0.1")
	r.HandleIncomingCall(ctx, InboundCall{WorkspaceID: "w", CallerNumber: "555", ProviderCallID: "call-1"})

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected one audit event, got %d", len(evs))
	}
	e := evs[0]
	if e.Type != audit.EventTypeRoutingOutcome || e.AgentNumber != "A2" || e.Outcome != "redirected" || e.IPAddress != "10.0.0.1" || e.CallID != "call-1" {
		t.Fatalf("unexpected audit event: %+v", e)
	}
}

func TestClientIPContext(t *testing.T) {
	ctx := context.Background()
	if WithClientIP(ctx, "") != ctx {
		t.Fatalf("empty ip must not wrap context")
	}
	if got := ClientIPFromContext(WithClientIP(ctx, "1.2.3.4")); got != "1.2.3.4" {
		t.Fatalf("unexpected ip %q", got)
	}
}
