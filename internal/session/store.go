// Package session keeps per-admin-session state that must outlive a single
// request: currently only the roster-source override.  The backing store is
// Redis so the override survives process restarts and is visible to every
// replica; when Redis is unreachable the package degrades to an in-process
// map, which is enough for a single-instance deployment.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store holds session-scoped values keyed by session id.  An absent value
// reads back as the empty string, never as an error.
type Store interface {
	SourceOverride(ctx context.Context, sid string) (string, error)
	SetSourceOverride(ctx context.Context, sid, url string) error
	ClearSourceOverride(ctx context.Context, sid string) error
}

// New returns a Redis-backed store when a client is available and the
// in-memory fallback otherwise.  ttl bounds how long an override outlives
// its last write; it is aligned with the admin token TTL by the caller.
func New(client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		return &MemoryStore{values: map[string]string{}}
	}
	return &RedisStore{Client: client, TTL: ttl}
}

// RedisStore keeps overrides under "session:source:<sid>" with a TTL.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisStore) key(sid string) string { return "session:source:" + sid }

func (s *RedisStore) SourceOverride(ctx context.Context, sid string) (string, error) {
	v, err := s.Client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetSourceOverride(ctx context.Context, sid, url string) error {
	return s.Client.Set(ctx, s.key(sid), url, s.TTL).Err()
}

func (s *RedisStore) ClearSourceOverride(ctx context.Context, sid string) error {
	return s.Client.Del(ctx, s.key(sid)).Err()
}

// MemoryStore is the single-process fallback.  Values live until cleared or
// the process exits; good enough when Redis is not configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{values: map[string]string{}} }

func (s *MemoryStore) SourceOverride(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[sid], nil
}

func (s *MemoryStore) SetSourceOverride(_ context.Context, sid, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[sid] = url
	return nil
}

func (s *MemoryStore) ClearSourceOverride(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, sid)
	return nil
}
