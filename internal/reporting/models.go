package reporting

import (
	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/calls"
)

// Dashboard is the console's landing view for one tenant.
//
// A section the remote platform could not serve is left at its zero value and
// named in Warnings.
type Dashboard struct {
	TotalCalls    int `json:"total_calls"`
	AnsweredCalls int `json:"answered_calls"`
	MissedCalls   int `json:"missed_calls"`

	// Rates are whole percentages of TotalCalls, rounded half up.
	AnswerRate int `json:"answer_rate"`
	MissedRate int `json:"missed_rate"`

	TotalMembers  int `json:"total_members"`
	ActiveMembers int `json:"active_members"`

	Balance string `json:"balance"`

	LiveCallCount int                   `json:"live_call_count"`
	LiveCalls     []callerdesk.LiveCall `json:"live_calls"`

	RecentCalls []calls.CallRecord `json:"recent_calls"`

	Warnings []string `json:"warnings,omitempty"`
}

// Summary aggregates one page of call records.
type Summary struct {
	Total    int `json:"total"`
	Inbound  int `json:"inbound"`
	Outbound int `json:"outbound"`

	Answered int `json:"answered"`
	NoAnswer int `json:"no_answer"`
	Other    int `json:"other"`

	TotalTalkSeconds   int `json:"total_talk_seconds"`
	AverageTalkSeconds int `json:"average_talk_seconds"`

	Recorded int `json:"recorded"`
}
