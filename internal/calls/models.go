package calls

import (
	"strings"
	"time"

	"callerdesk-console/internal/callerdesk"
)

// CallRecord is one historical call as reported by the remote platform.
// Records are read-only here; the platform is the system of record.
type CallRecord struct {
	ID string `json:"id"`

	// CallerNumber is the remote party: the customer, whichever way the call flowed.
	CallerNumber string `json:"caller_number"`

	AgentNumber string `json:"agent_number"`
	AgentName   string `json:"agent_name"`

	// StartedAt is kept exactly as sent; StartTime parses it.
	StartedAt string `json:"started_at"`

	Flow   Flow       `json:"flow"`
	Status CallStatus `json:"status"`

	TalkDurationSeconds int `json:"talk_duration_seconds"`

	Deskphone    string `json:"deskphone,omitempty"`
	GroupName    string `json:"group_name,omitempty"`
	RecordingURL string `json:"recording_url,omitempty"`
}

type Flow string

const (
	FlowInbound  Flow = "inbound"
	FlowOutbound Flow = "outbound"
	FlowUnknown  Flow = "unknown"
)

type CallStatus string

const (
	CallStatusAnswered CallStatus = "ANSWER"
	CallStatusNoAnswer CallStatus = "NOANSWER"
)

// Answered reports whether the call was picked up.
func (r CallRecord) Answered() bool { return r.Status == CallStatusAnswered }

// StartTime parses StartedAt. ok is false when the value is blank or in an
// unrecognised format.
func (r CallRecord) StartTime() (t time.Time, ok bool) {
	return ParseTimestamp(r.StartedAt)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339 and the API's "YYYY-MM-DD hh:mm:ss" form.
// Values without an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FlowFromAPI maps the API's Flow_type tag onto a direction.
func FlowFromAPI(flowType string) Flow {
	switch strings.ToUpper(strings.TrimSpace(flowType)) {
	case callerdesk.FlowInbound:
		return FlowInbound
	case callerdesk.FlowOutbound:
		return FlowOutbound
	default:
		return FlowUnknown
	}
}

// FromLog converts a wire row into a CallRecord.
func FromLog(l callerdesk.CallLog) CallRecord {
	return CallRecord{
		ID:                  l.ID.String(),
		CallerNumber:        l.CallerNum,
		AgentNumber:         l.MemberNum,
		AgentName:           l.MemberName,
		StartedAt:           l.StartDateTime,
		Flow:                FlowFromAPI(l.FlowType),
		Status:              CallStatus(l.CallStatus),
		TalkDurationSeconds: int(l.TalkDuration),
		Deskphone:           l.Deskphone,
		GroupName:           l.GroupName,
		RecordingURL:        l.File,
	}
}

// FromLogs converts a page of wire rows.
func FromLogs(logs []callerdesk.CallLog) []CallRecord {
	out := make([]CallRecord, 0, len(logs))
	for _, l := range logs {
		out = append(out, FromLog(l))
	}
	return out
}
