package settings

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store keeps one CallerDesk credential per workspace.
// Get returns "" with a nil error when nothing is stored.
type Store interface {
	Get(ctx context.Context, workspaceID string) (string, error)
	Set(ctx context.Context, workspaceID, credential string) error
	Delete(ctx context.Context, workspaceID string) error
}

const credentialKeyPrefix = "callerdesk:credential:"

func credentialKey(workspaceID string) string {
	return credentialKeyPrefix + workspaceID
}

// RedisStore persists credentials as plain string keys with no expiry.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, workspaceID string) (string, error) {
	if s.rdb == nil {
		return "", errors.New("settings: redis client is nil")
	}
	v, err := s.rdb.Get(ctx, credentialKey(workspaceID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, workspaceID, credential string) error {
	if s.rdb == nil {
		return errors.New("settings: redis client is nil")
	}
	return s.rdb.Set(ctx, credentialKey(workspaceID), credential, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, workspaceID string) error {
	if s.rdb == nil {
		return errors.New("settings: redis client is nil")
	}
	return s.rdb.Del(ctx, credentialKey(workspaceID)).Err()
}

// MemoryStore is a process-local Store for tests and the CLI.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, workspaceID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds[workspaceID], nil
}

func (s *MemoryStore) Set(_ context.Context, workspaceID, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[workspaceID] = credential
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, workspaceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, workspaceID)
	return nil
}

// Mask hides all but the last four characters of a credential.
func Mask(credential string) string {
	credential = strings.TrimSpace(credential)
	if len(credential) <= 4 {
		return strings.Repeat("*", len(credential))
	}
	return strings.Repeat("*", len(credential)-4) + credential[len(credential)-4:]
}
