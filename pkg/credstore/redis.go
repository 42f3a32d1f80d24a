package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const latestKey = "callbackd:credentials:latest"

// Fallback lifetime when the provider did not report an expiry.
const defaultTTL = 24 * time.Hour

// RedisStore keeps the latest credentials in Redis, expiring them together
// with the access token.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed credential cache.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	ttl := defaultTTL
	if !rec.ExpiresAt.IsZero() {
		if until := time.Until(rec.ExpiresAt); until > 0 {
			ttl = until
		}
	}

	if err := s.client.Set(ctx, latestKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context) (*Record, error) {
	payload, err := s.client.Get(ctx, latestKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached credentials: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached credentials: %w", err)
	}
	return &rec, nil
}
