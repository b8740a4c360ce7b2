package handoff

import (
	"context"
	"sync"
	"time"

	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

type entry struct {
	payload   Payload
	expiresAt time.Time
}

// InMemoryStore holds handoff payloads in process memory with a TTL. Suits a
// single-instance deployment; use the Redis store when the print view may
// land on another instance.
type InMemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// NewInMemoryStore builds a store whose entries expire after ttl.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Save stores or overwrites the payload for a token.
func (s *InMemoryStore) Save(_ context.Context, token string, p Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = entry{payload: p, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Load returns the payload for a token. Expired or unknown tokens resolve to
// sentinel.ErrNotFound; expired entries are dropped on the way out.
func (s *InMemoryStore) Load(_ context.Context, token string) (Payload, error) {
	s.mu.RLock()
	e, ok := s.entries[token]
	s.mu.RUnlock()
	if !ok {
		return Payload{}, sentinel.ErrNotFound
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, token)
		s.mu.Unlock()
		return Payload{}, sentinel.ErrNotFound
	}
	return e.payload, nil
}
