package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

const handoffKeyPrefix = "handoff:slip:"

// RedisStore is a Redis-backed handoff store. Expiry is delegated to Redis
// key TTLs, which matches the session-scoped contract: entries vanish on
// their own, nothing deletes them explicitly.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a store over an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save stores or overwrites the payload for a token with the configured TTL.
func (s *RedisStore) Save(ctx context.Context, token string, p Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal handoff payload: %w", err)
	}
	if err := s.client.Set(ctx, handoffKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save handoff payload: %w", err)
	}
	return nil
}

// Load returns the payload for a token, or sentinel.ErrNotFound once the key
// has expired or never existed.
func (s *RedisStore) Load(ctx context.Context, token string) (Payload, error) {
	data, err := s.client.Get(ctx, handoffKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Payload{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Payload{}, fmt.Errorf("load handoff payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode handoff payload: %w", err)
	}
	return p, nil
}
