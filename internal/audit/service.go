package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only: there is no Update or Delete.
type Repository interface {
	Append(ctx context.Context, e Event) error
	Recent(ctx context.Context, f Filter) ([]Event, error)
}

// Service logs internal audit information.
//
// Callers should treat audit logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

const defaultRecentLimit = 50

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.WorkspaceID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// Recent returns the newest events first. workspace_id is mandatory.
func (s *Service) Recent(ctx context.Context, f Filter) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if f.WorkspaceID == "" {
		return nil, ErrInvalidEvent
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = defaultRecentLimit
	}
	return s.repo.Recent(ctx, f)
}

// LogRoutingOutcome records how one inbound call was handled.
func (s *Service) LogRoutingOutcome(ctx context.Context, workspaceID, ip, callID, callerNumber, agentNumber, outcome, message string) error {
	return s.Append(ctx, Event{
		WorkspaceID:  workspaceID,
		Type:         EventTypeRoutingOutcome,
		IPAddress:    ip,
		CallID:       callID,
		CallerNumber: callerNumber,
		AgentNumber:  agentNumber,
		Outcome:      outcome,
		Message:      message,
	})
}

// LogCredentialChanged records a save or removal of the workspace credential.
// The credential itself is never logged.
func (s *Service) LogCredentialChanged(ctx context.Context, workspaceID, actorUserID, actorRole, ip, message string) error {
	return s.Append(ctx, Event{
		WorkspaceID: workspaceID,
		Type:        EventTypeCredentialChanged,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		Message:     message,
	})
}
