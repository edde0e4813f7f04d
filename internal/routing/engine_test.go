package routing

import (
	"testing"

	"callerdesk-console/internal/calls"
)

func rec(caller, agent, name, started string) calls.CallRecord {
	return calls.CallRecord{CallerNumber: caller, AgentNumber: agent, AgentName: name, StartedAt: started, Flow: calls.FlowOutbound}
}

func TestDecide_MostRecentWins(t *testing.T) {
	history := []calls.CallRecord{
		rec("555", "A1", "Alice", "2024-01-01T10:00:00Z"),
		rec("555", "A2", "Bob", "2024-01-02T09:00:00Z"),
	}
	got := Decide(history, "555", nil)
	want := Decision{ShouldRedirect: true, AgentNumber: "A2", AgentName: "Bob", LastCallDate: "2024-01-02T09:00:00Z"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Order of the input must not matter.
	reversed := []calls.CallRecord{history[1], history[0]}
	if got := Decide(reversed, "555", nil); got != want {
		t.Fatalf("reversed input: got %+v", got)
	}
}

func TestDecide_EmptyHistory(t *testing.T) {
	if got := Decide(nil, "555", nil); got != NoRedirect {
		t.Fatalf("expected no redirect, got %+v", got)
	}
	if got := Decide([]calls.CallRecord{}, "555", ExactMatcher{}); got.ShouldRedirect {
		t.Fatalf("expected no redirect, got %+v", got)
	}
}

func TestDecide_NoMatch(t *testing.T) {
	history := []calls.CallRecord{rec("777", "A1", "Alice", "2024-01-01T10:00:00Z")}
	if got := Decide(history, "555", nil); got.ShouldRedirect {
		t.Fatalf("expected no redirect, got %+v", got)
	}
}

func TestDecide_ExactMatchDoesNotNormalise(t *testing.T) {
	history := []calls.CallRecord{rec("+91 98765 43210", "A1", "Alice", "2024-01-01T10:00:00Z")}
	if got := Decide(history, "09876543210", ExactMatcher{}); got.ShouldRedirect {
		t.Fatalf("exact matcher must not normalise, got %+v", got)
	}
	got := Decide(history, "09876543210", DigitsMatcher{})
	if !got.ShouldRedirect || got.AgentNumber != "A1" {
		t.Fatalf("digits matcher should match, got %+v", got)
	}
}

func TestDecide_IsDeterministic(t *testing.T) {
	history := []calls.CallRecord{
		rec("555", "A1", "Alice", "2024-01-01 10:00:00"),
		rec("555", "A2", "Bob", "2024-01-01 10:00:00"),
		rec("555", "A3", "Cara", "not a date"),
	}
	first := Decide(history, "555", nil)
	for i := 0; i < 20; i++ {
		if got := Decide(history, "555", nil); got != first {
			t.Fatalf("decision changed between runs: %+v vs %+v", got, first)
		}
	}
	// Ties keep history order.
	if first.AgentNumber != "A1" {
		t.Fatalf("expected first of tied records, got %+v", first)
	}
}

func TestDecide_UnparseableTimestampsSortLast(t *testing.T) {
	history := []calls.CallRecord{
		rec("555", "A1", "Alice", ""),
		rec("555", "A2", "Bob", "2023-06-01 08:00:00"),
	}
	if got := Decide(history, "555", nil); got.AgentNumber != "A2" {
		t.Fatalf("expected parsed record to win, got %+v", got)
	}

	onlyBad := []calls.CallRecord{rec("555", "A1", "Alice", "garbage")}
	if got := Decide(onlyBad, "555", nil); got.AgentNumber != "A1" || got.LastCallDate != "garbage" {
		t.Fatalf("expected lone record to win with raw date, got %+v", got)
	}
}

func TestDecide_MissingAgentNumberIsNoRedirect(t *testing.T) {
	history := []calls.CallRecord{rec("555", "", "Ghost", "2024-01-01T10:00:00Z")}
	if got := Decide(history, "555", nil); got.ShouldRedirect {
		t.Fatalf("redirect without agent number: %+v", got)
	}
}

func TestDigitsMatcher(t *testing.T) {
	m := DigitsMatcher{Significant: 10}
	cases := []struct {
		a, b string
		want bool
	}{
		{"555", "555", true},
		{"(555)", "555", true},
		{"555", "5555", false},
		{"+1 415-555-0100", "4155550100", true},
		{"4155550100", "4155550101", false},
		{"", "", false},
		{"abc", "abc", false},
	}
	for _, c := range cases {
		if got := m.Match(c.a, c.b); got != c.want {
			t.Fatalf("Match(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestMatcherFor(t *testing.T) {
	if _, ok := MatcherFor("digits").(DigitsMatcher); !ok {
		t.Fatalf("expected digits matcher")
	}
	if _, ok := MatcherFor("").(ExactMatcher); !ok {
		t.Fatalf("expected exact matcher by default")
	}
}
