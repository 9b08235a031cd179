package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks revoked refresh-token jtis in Redis.
// Key format: revoked:<jti>, expiring with the token's remaining lifetime so
// the denylist never outgrows the set of live tokens.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke denylists the jti for ttlSeconds. A non-positive ttl means the token
// already expired and nothing needs to be stored.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttlSeconds int64) error {
	if ttlSeconds <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(jti), "1", time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the jti has been denylisted.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(jti string) string {
	return "revoked:" + jti
}
