package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"callerdesk-console/internal/audit"
	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/pkg/logger"
)

var (
	// ErrNotConfigured means neither the workspace nor the process has a credential.
	ErrNotConfigured = errors.New("settings: callerdesk credential not configured")

	ErrEmptyCredential = errors.New("settings: credential is empty")
	ErrWorkspaceID     = errors.New("settings: workspace_id required")
)

// RejectedError means the remote platform refused the credential.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "settings: credential rejected: " + e.Message
}

// ProfileChecker is the call used to verify a credential before storing it.
type ProfileChecker interface {
	ProfileBalance(ctx context.Context, authCode string) (*callerdesk.ProfileResponse, error)
}

// Actor identifies who changed a setting, for audit.
type Actor struct {
	UserID string
	Role   string
	IP     string
}

// Source says where a resolved credential came from.
type Source string

const (
	SourceWorkspace Source = "workspace"
	SourceDefault   Source = "default"
	SourceNone      Source = "none"
)

// Status describes the active credential without revealing it.
type Status struct {
	Configured bool   `json:"configured"`
	Source     Source `json:"source"`
	Masked     string `json:"masked,omitempty"`
}

type Service struct {
	store    Store
	checker  ProfileChecker
	audit    *audit.Service
	fallback string
}

// NewService builds the credential service. fallback is the process-wide
// credential used when a workspace has none; it may be empty.
func NewService(store Store, checker ProfileChecker, auditSvc *audit.Service, fallback string) *Service {
	return &Service{store: store, checker: checker, audit: auditSvc, fallback: strings.TrimSpace(fallback)}
}

// Save verifies credential against the account profile and stores it only if
// the platform accepts it.
func (s *Service) Save(ctx context.Context, workspaceID, credential string, actor Actor) error {
	credential = strings.TrimSpace(credential)
	if workspaceID == "" {
		return ErrWorkspaceID
	}
	if credential == "" {
		return ErrEmptyCredential
	}

	if s.checker != nil {
		resp, err := s.checker.ProfileBalance(ctx, credential)
		if err != nil {
			return fmt.Errorf("settings: verify credential: %w", err)
		}
		if !resp.OK() {
			return &RejectedError{Message: resp.MessageOr("invalid credential")}
		}
	}

	if err := s.store.Set(ctx, workspaceID, credential); err != nil {
		return fmt.Errorf("settings: store credential: %w", err)
	}
	s.logChange(ctx, workspaceID, actor, "credential saved")
	return nil
}

// Clear removes the workspace credential; the fallback, if any, applies again.
func (s *Service) Clear(ctx context.Context, workspaceID string, actor Actor) error {
	if workspaceID == "" {
		return ErrWorkspaceID
	}
	if err := s.store.Delete(ctx, workspaceID); err != nil {
		return fmt.Errorf("settings: delete credential: %w", err)
	}
	s.logChange(ctx, workspaceID, actor, "credential cleared")
	return nil
}

// Resolve returns the credential to use for workspaceID.
func (s *Service) Resolve(ctx context.Context, workspaceID string) (string, error) {
	cred, _, err := s.resolve(ctx, workspaceID)
	return cred, err
}

func (s *Service) Status(ctx context.Context, workspaceID string) (Status, error) {
	cred, src, err := s.resolve(ctx, workspaceID)
	if errors.Is(err, ErrNotConfigured) {
		return Status{Source: SourceNone}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Configured: true, Source: src, Masked: Mask(cred)}, nil
}

func (s *Service) resolve(ctx context.Context, workspaceID string) (string, Source, error) {
	if workspaceID != "" && s.store != nil {
		cred, err := s.store.Get(ctx, workspaceID)
		if err != nil {
			return "", SourceNone, fmt.Errorf("settings: load credential: %w", err)
		}
		if cred != "" {
			return cred, SourceWorkspace, nil
		}
	}
	if s.fallback != "" {
		return s.fallback, SourceDefault, nil
	}
	return "", SourceNone, ErrNotConfigured
}

func (s *Service) logChange(ctx context.Context, workspaceID string, actor Actor, message string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogCredentialChanged(ctx, workspaceID, actor.UserID, actor.Role, actor.IP, message); err != nil {
		logger.From(ctx).Error("audit credential change failed", "workspace_id", workspaceID, "err", err)
	}
}
