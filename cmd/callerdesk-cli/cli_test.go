package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callerdesk-console/internal/auth"
	"callerdesk-console/internal/config"
	"callerdesk-console/internal/routing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/api/") {
		case "call_list_v2":
			io.WriteString(w, `{"type":"success","result":[
				{"id":1,"caller_num":"555","member_num":"A1","member_name":"Alice","startdatetime":"2024-01-01 09:00:00","Flow_type":"WEBOBD","callstatus":"ANSWER"},
				{"id":2,"caller_num":"555","member_num":"A2","member_name":"Bob","startdatetime":"2024-01-02 09:00:00","Flow_type":"WEBOBD","callstatus":"ANSWER"}]}`)
		case "click_to_call_v2":
			io.WriteString(w, `{"type":"success","message":"Call initiated"}`)
		default:
			io.WriteString(w, `{"type":"error","message":"unknown"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHistoryPrintsTable(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "history", "555", "--authcode", "code", "--base-url", srv.URL+"/api")
	require.NoError(t, err)
	assert.Contains(t, out, "STARTED")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "2 record(s)")
}

func TestRouteDryRunPicksMostRecentAgent(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "route", "555", "--dry-run", "--authcode", "code", "--base-url", srv.URL+"/api")
	require.NoError(t, err)

	var d routing.Decision
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.True(t, d.ShouldRedirect)
	assert.Equal(t, "A2", d.AgentNumber)
}

func TestRouteDryRunTrimsCaller(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "route", "  555 ", "--dry-run", "--authcode", "code", "--base-url", srv.URL+"/api")
	require.NoError(t, err)

	var d routing.Decision
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.True(t, d.ShouldRedirect)
	assert.Equal(t, "A2", d.AgentNumber)
}

func TestRouteRedirects(t *testing.T) {
	srv := fakeAPI(t)
	out, err := run(t, "route", "555", "--deskphone", "0800", "--authcode", "code", "--base-url", srv.URL+"/api")
	require.NoError(t, err)

	var o routing.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &o))
	assert.True(t, o.Routed)
	assert.Equal(t, "Call redirected to Bob", o.Message)
}

func TestDialRequiresCredential(t *testing.T) {
	t.Setenv("CALLERDESK_AUTH_CODE", "")
	_, err := run(t, "dial", "--agent", "A1", "--customer", "555", "--deskphone", "0800", "--authcode", "")
	require.Error(t, err)
}

func TestTokenMintsVerifiablePair(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "token", "--user", "ops", "--workspace", "w9", "--role", "supervisor")
	require.NoError(t, err)

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal([]byte(out), &pair))

	m, err := auth.NewManager(config.AuthConfig{JWTSecret: "cli-secret"})
	require.NoError(t, err)
	claims, err := m.Verify(pair.AccessToken, auth.TokenTypeAccess, pair.ExpiresAt.Add(-1))
	require.NoError(t, err)
	assert.Equal(t, "w9", claims.WorkspaceID)
	assert.Equal(t, "supervisor", claims.Role)

	_, err = run(t, "token", "--user", "ops", "--role", "owner")
	assert.Error(t, err)
}
