package routing

// Decision is the pure output of the routing engine for one inbound call.
//
// ShouldRedirect implies a non-empty AgentNumber taken from a matching
// history record. The remaining fields are empty when ShouldRedirect is false.
type Decision struct {
	ShouldRedirect bool   `json:"should_redirect"`
	AgentNumber    string `json:"agent_number,omitempty"`
	AgentName      string `json:"agent_name,omitempty"`

	// LastCallDate is the raw start timestamp of the record that justified the redirect.
	LastCallDate string `json:"last_call_date,omitempty"`
}

// NoRedirect is the decision for an unmatched caller.
var NoRedirect = Decision{}
