package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocationStore remembers logged-out session tokens until they expire.
// Key format: revoked:<jti>
type TokenRevocationStore struct {
	client *redis.Client
}

// NewTokenRevocationStore creates a TokenRevocationStore wrapping the given Redis client.
func NewTokenRevocationStore(client *redis.Client) *TokenRevocationStore {
	return &TokenRevocationStore{client: client}
}

// Revoke marks the token id as revoked for ttl.
func (s *TokenRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was revoked and has not expired yet.
func (s *TokenRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether Redis is reachable. Used by the readiness check.
func (s *TokenRevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *TokenRevocationStore) key(jti string) string {
	return "revoked:" + jti
}
