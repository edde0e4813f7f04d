package audit

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory append-only repository.
// It backs the console when no Postgres is configured, and tests.

type MemoryRepo struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) Recent(ctx context.Context, f Filter) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Event{}
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if f.WorkspaceID != "" && e.WorkspaceID != f.WorkspaceID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
