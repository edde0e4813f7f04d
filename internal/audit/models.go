package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - workspace_id is required for tenancy isolation.
// - actor and ip capture are best-effort; do not block critical flows on audit failures.

type Event struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated user causing the event (if applicable).
	// Webhook-triggered routing has no actor.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress is the resolved client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Routing targets (optional, depending on the event type).
	CallID       string `json:"call_id,omitempty" db:"call_id"`
	CallerNumber string `json:"caller_number,omitempty" db:"caller_number"`
	AgentNumber  string `json:"agent_number,omitempty" db:"agent_number"`
	Outcome      string `json:"outcome,omitempty" db:"outcome"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeRoutingOutcome    EventType = "routing_outcome"
	EventTypeCredentialChanged EventType = "credential_changed"
)

// Filter narrows a Recent query. Zero values match everything.
type Filter struct {
	WorkspaceID string
	Type        EventType
	Limit       int
}
