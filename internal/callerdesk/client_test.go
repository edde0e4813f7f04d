package callerdesk

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc, obs RequestObserver) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c, err := New(Config{BaseURL: server.URL + "/api", HTTPClient: server.Client(), Observer: obs})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveRequest(op, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, op+":"+outcome)
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Fatalf("expected default base url, got %s", c.baseURL)
	}
	if c.httpClient.Timeout != 15*time.Second {
		t.Fatalf("expected default timeout, got %s", c.httpClient.Timeout)
	}
	if _, err := New(Config{BaseURL: "not a url"}); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}

func TestCallLogsPostsFormWithCredential(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/call_list_v2" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("authcode") != "secret" {
			t.Fatalf("credential not injected: %v", r.PostForm)
		}
		if r.PostForm.Get("Flow_type") != FlowOutbound || r.PostForm.Get("per_page") != "100" {
			t.Fatalf("unexpected filters: %v", r.PostForm)
		}
		if _, ok := r.PostForm["start_date"]; ok {
			t.Fatalf("zero filter fields must be omitted")
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"type":"success","total":2,"answered_total":"1","noanswer_total":"1",
			"result":[{"id":7,"caller_num":"555","member_num":"A1","member_name":"Alice",
			"startdatetime":"2024-01-01 10:00:00","Flow_type":"WEBOBD","talk_duration":"42","ringing_duration":3}]}`)
	}, nil)

	resp, err := c.CallLogs(context.Background(), "secret", CallLogFilter{FlowType: FlowOutbound, PerPage: 100})
	if err != nil {
		t.Fatalf("call logs: %v", err)
	}
	if !resp.OK() || resp.Total != 2 || resp.AnsweredTotal != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Result) != 1 {
		t.Fatalf("expected one record, got %d", len(resp.Result))
	}
	got := resp.Result[0]
	if got.ID != "7" || got.TalkDuration != 42 || got.RingingDuration != 3 || got.MemberName != "Alice" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestLiveCallsUsesQueryString(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/live_call_v2" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("authcode") != "secret" {
			t.Fatalf("credential not in query: %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"type":"success","total_live_calls":"2","live_calls":[{"msisdn":"555"},{"msisdn":"556"}]}`)
	}, nil)

	resp, err := c.LiveCalls(context.Background(), "secret")
	if err != nil {
		t.Fatalf("live calls: %v", err)
	}
	if resp.TotalLiveCalls != 2 || len(resp.LiveCalls) != 2 {
		t.Fatalf("unexpected live calls: %+v", resp)
	}
}

func TestClickToCallParameters(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		io.WriteString(w, `{"type":"success","message":"queued"}`)
	}, nil)

	env, err := c.ClickToCall(context.Background(), "secret", ClickToCallRequest{PartyA: "A1", PartyB: "555", Deskphone: "0800"})
	if err != nil {
		t.Fatalf("click to call: %v", err)
	}
	if !env.OK() || env.Message != "queued" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	want := map[string]string{
		"authcode":        "secret",
		"calling_party_a": "A1",
		"calling_party_b": "555",
		"deskphone":       "0800",
		"call_from_did":   "1",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Fatalf("param %s: want %q got %q", k, v, got.Get(k))
		}
	}
}

func TestDomainErrorIsNotAnError(t *testing.T) {
	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"type":"error","message":"invalid authcode"}`)
	}, obs)

	resp, err := c.ProfileBalance(context.Background(), "bad")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.OK() || resp.Message != "invalid authcode" {
		t.Fatalf("unexpected envelope: %+v", resp.Envelope)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != "profile_billing_v2:error" {
		t.Fatalf("unexpected observations: %v", obs.outcomes)
	}
}

func TestNon2xxIsTransportError(t *testing.T) {
	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"type":"error"}`)
	}, obs)

	_, err := c.Members(context.Background(), "secret")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusBadGateway || te.Op != opMemberList {
		t.Fatalf("unexpected transport error: %+v", te)
	}
	if obs.outcomes[0] != "getmemberlist_V2:transport" {
		t.Fatalf("unexpected observations: %v", obs.outcomes)
	}
}

func TestMalformedEnvelope(t *testing.T) {
	for name, body := range map[string]string{
		"not json":     `<html>oops</html>`,
		"missing type": `{"message":"hi"}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, body)
			}, nil)
			_, err := c.CallGroups(context.Background(), "secret")
			if !errors.Is(err, ErrMalformedEnvelope) {
				t.Fatalf("expected ErrMalformedEnvelope, got %v", err)
			}
		})
	}
}

func TestMissingCredentialSkipsRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, nil)

	if _, err := c.LiveCalls(context.Background(), " "); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if called {
		t.Fatalf("request must not be sent without a credential")
	}
}

func TestAddMemberDefaults(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		io.WriteString(w, `{"type":"success"}`)
	}, nil)

	if _, err := c.AddMember(context.Background(), "secret", AddMemberRequest{Name: "Bob", Number: "999"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if form.Get("access") != "2" || form.Get("active") != "1" {
		t.Fatalf("expected default access/active, got %v", form)
	}
	if _, err := c.AddMember(context.Background(), "secret", AddMemberRequest{Name: "Bob"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestCredentialFieldCannotBeOverridden(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		io.WriteString(w, `{"type":"success"}`)
	}, nil)

	_, err := c.PostForm(context.Background(), "dashboard_summary", "secret", url.Values{"authcode": {"other"}}, nil)
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	if vs := form["authcode"]; len(vs) != 1 || vs[0] != "secret" {
		t.Fatalf("expected only the supplied credential, got %v", vs)
	}
}

func TestLabels(t *testing.T) {
	if StrategyName("1") != "Round Robin" || StrategyName("9") != "Unknown" {
		t.Fatalf("unexpected strategy labels")
	}
	if ContactStatusLabel("6") != "Prospect" || ContactStatusLabel("") != "Unknown" {
		t.Fatalf("unexpected contact labels")
	}
}
