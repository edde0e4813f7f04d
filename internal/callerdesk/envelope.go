package callerdesk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	TypeSuccess = "success"
	TypeError   = "error"
)

// ErrMalformedEnvelope means the body was not JSON or had no type field.
var ErrMalformedEnvelope = errors.New("callerdesk: malformed response envelope")

// ErrInvalidRequest wraps argument validation failures. Nothing was sent.
var ErrInvalidRequest = errors.New("callerdesk: invalid request")

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}

// Envelope is the {type, message} wrapper every CallerDesk response carries.
// Operation responses embed it so the fields decode from the same body.
type Envelope struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the remote side signalled success.
func (e Envelope) OK() bool { return e.Type == TypeSuccess }

// MessageOr returns the envelope message or fallback when it is blank.
func (e Envelope) MessageOr(fallback string) string {
	if strings.TrimSpace(e.Message) == "" {
		return fallback
	}
	return e.Message
}

// TransportError is a failure to complete the HTTP exchange: the request could
// not be sent, or the server answered with a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("callerdesk: %s: %s: %v", e.Op, e.Status, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("callerdesk: %s: api call failed: %s", e.Op, e.Status)
	default:
		return fmt.Sprintf("callerdesk: %s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// FlexInt decodes counters the API sends either as numbers or numeric strings.
// Blank or non-numeric values decode as 0.
type FlexInt int

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		*n = FlexInt(i)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	*n = 0
	return nil
}

// FlexString decodes identifiers the API sends either as strings or numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(string(b))
	return nil
}

func (s FlexString) String() string { return string(s) }
