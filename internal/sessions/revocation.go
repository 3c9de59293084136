package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations remembers access tokens of signed-out sessions until they expire,
// so a stale copy of a mirror (another instance, a racing request) is not trusted.
// A nil Redis client disables it.
type Revocations struct {
	client *redis.Client
}

func NewRevocations(c *redis.Client) *Revocations { return &Revocations{client: c} }

func revokedKey(token string) string { return "revoked:access:" + token }

// Revoke stores the given token with TTL. No-op without a client or with ttl <= 0.
func (r *Revocations) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r == nil || r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(token), "1", ttl).Err()
}

// IsRevoked returns true when the token was revoked. Without a client: (false, nil).
func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	exists, err := r.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
