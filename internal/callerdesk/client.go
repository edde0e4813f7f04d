package callerdesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://app.callerdesk.io/api"
	defaultUserAgent = "callerdesk-console/0.1"

	// credentialField is the form field and query parameter carrying the tenant credential.
	credentialField = "authcode"
)

// ErrMissingCredential is returned before any I/O when no credential is supplied.
var ErrMissingCredential = errors.New("callerdesk: credential required")

// RequestObserver receives one observation per remote call.
// outcome is one of success, error, transport, malformed.
type RequestObserver interface {
	ObserveRequest(op, outcome string, elapsed time.Duration)
}

// Config controls how the client talks to the remote API.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
	Observer   RequestObserver
}

// Client is a thin gateway over the CallerDesk HTTP API.
//
// Each call is a single attempt: no retries and no backoff. Timeouts belong to
// the underlying http.Client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
	observer   RequestObserver
}

// New creates a Client with defaults filled in.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("callerdesk: invalid base url %q", baseURL)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
		observer:   cfg.Observer,
	}, nil
}

// PostForm submits fields as a form-encoded body to op and decodes the
// response into out (which may be nil). The credential is always added as the
// authcode field.
//
// A response with type "error" is returned as a normal Envelope, not an error.
func (c *Client) PostForm(ctx context.Context, op, authCode string, fields url.Values, out any) (Envelope, error) {
	if strings.TrimSpace(authCode) == "" {
		return Envelope{}, ErrMissingCredential
	}
	form := url.Values{}
	form.Set(credentialField, authCode)
	for k, vs := range fields {
		if k == credentialField {
			continue
		}
		for _, v := range vs {
			form.Add(k, v)
		}
	}
	return c.do(ctx, http.MethodPost, op, nil, strings.NewReader(form.Encode()), out)
}

// GetQuery issues a GET to op with params in the query string. The credential
// is always added as the authcode parameter.
func (c *Client) GetQuery(ctx context.Context, op, authCode string, params url.Values, out any) (Envelope, error) {
	if strings.TrimSpace(authCode) == "" {
		return Envelope{}, ErrMissingCredential
	}
	q := url.Values{}
	q.Set(credentialField, authCode)
	for k, vs := range params {
		if k == credentialField {
			continue
		}
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return c.do(ctx, http.MethodGet, op, q, nil, out)
}

func (c *Client) do(ctx context.Context, method, op string, query url.Values, body io.Reader, out any) (Envelope, error) {
	start := time.Now()
	env, err := c.invoke(ctx, method, op, query, body, out)
	c.observe(op, outcomeOf(env, err), time.Since(start))
	return env, err
}

func (c *Client) invoke(ctx context.Context, method, op string, query url.Values, body io.Reader, out any) (Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(op, query), body)
	if err != nil {
		return Envelope{}, fmt.Errorf("callerdesk: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Envelope{}, &TransportError{Op: op, Err: err}
	}
	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Envelope{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if readErr != nil {
		return Envelope{}, &TransportError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status, Err: readErr}
	}

	env, err := decodeEnvelope(op, data, out)
	if err != nil {
		return Envelope{}, err
	}
	c.logger.Debug("callerdesk response", "op", op, "status", resp.StatusCode, "type", env.Type)
	return env, nil
}

func (c *Client) buildURL(op string, query url.Values) string {
	full := c.baseURL + "/" + strings.TrimLeft(op, "/")
	if len(query) > 0 {
		full = full + "?" + query.Encode()
	}
	return full
}

func (c *Client) observe(op, outcome string, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(op, outcome, elapsed)
}

func decodeEnvelope(op string, data []byte, out any) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %s: %v", ErrMalformedEnvelope, op, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: %s: missing type", ErrMalformedEnvelope, op)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return Envelope{}, fmt.Errorf("%w: %s: %v", ErrMalformedEnvelope, op, err)
		}
	}
	return env, nil
}

func outcomeOf(env Envelope, err error) string {
	var te *TransportError
	switch {
	case err == nil && env.OK():
		return "success"
	case err == nil:
		return "error"
	case errors.As(err, &te):
		return "transport"
	default:
		return "malformed"
	}
}
