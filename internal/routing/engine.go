package routing

import (
	"slices"
	"strings"
	"time"

	"callerdesk-console/internal/calls"
)

// NumberMatcher decides whether a history record's remote party is the
// incoming caller.
type NumberMatcher interface {
	Match(recordNumber, incomingNumber string) bool
}

// ExactMatcher compares numbers as plain strings, with no normalisation.
type ExactMatcher struct{}

func (ExactMatcher) Match(recordNumber, incomingNumber string) bool {
	return recordNumber == incomingNumber
}

// DigitsMatcher ignores everything but digits and compares the trailing
// Significant digits, so "+91 98765-43210" matches "09876543210".
// Numbers shorter than Significant must match in full.
type DigitsMatcher struct {
	Significant int
}

const defaultSignificantDigits = 10

func (m DigitsMatcher) Match(recordNumber, incomingNumber string) bool {
	a, b := digitsOnly(recordNumber), digitsOnly(incomingNumber)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	n := m.Significant
	if n <= 0 {
		n = defaultSignificantDigits
	}
	if len(a) < n || len(b) < n {
		return false
	}
	return a[len(a)-n:] == b[len(b)-n:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatcherFor maps a configured policy name to a matcher. Unknown names get
// exact matching.
func MatcherFor(policy string) NumberMatcher {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "digits":
		return DigitsMatcher{Significant: defaultSignificantDigits}
	default:
		return ExactMatcher{}
	}
}

type candidate struct {
	rec    calls.CallRecord
	at     time.Time
	parsed bool
}

// Decide picks the agent who most recently dialled incomingNumber.
//
// Records are filtered with m (exact matching when nil), then ordered newest
// first by start time. Records whose timestamp cannot be parsed sort after all
// parsed ones; ties keep history order. A winning record without an agent
// number yields no redirect.
//
// Decide does no I/O and keeps no state.
func Decide(history []calls.CallRecord, incomingNumber string, m NumberMatcher) Decision {
	if m == nil {
		m = ExactMatcher{}
	}

	var matched []candidate
	for _, rec := range history {
		if !m.Match(rec.CallerNumber, incomingNumber) {
			continue
		}
		at, ok := rec.StartTime()
		matched = append(matched, candidate{rec: rec, at: at, parsed: ok})
	}
	if len(matched) == 0 {
		return NoRedirect
	}

	slices.SortStableFunc(matched, func(a, b candidate) int {
		switch {
		case a.parsed && b.parsed:
			return b.at.Compare(a.at)
		case a.parsed:
			return -1
		case b.parsed:
			return 1
		default:
			return 0
		}
	})

	best := matched[0].rec
	if strings.TrimSpace(best.AgentNumber) == "" {
		return NoRedirect
	}
	return Decision{
		ShouldRedirect: true,
		AgentNumber:    best.AgentNumber,
		AgentName:      best.AgentName,
		LastCallDate:   best.StartedAt,
	}
}
