package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cropdeal/marketplace-backend/internal/core/domain"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 5 * time.Minute
)

// LoginLimiter throttles sign-in attempts per username with a fixed
// window in Redis. Key format: signin:<username>. The first attempt in a
// window sets the expiry; once the counter passes the limit, further
// attempts are rejected until the key expires.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter wraps the given Redis client. Non-positive settings
// fall back to the defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Enforce counts the attempt and returns domain.ErrTooManyAttempts when
// the window budget is exhausted. Redis errors are returned as-is; the
// caller decides whether to fail open.
func (l *LoginLimiter) Enforce(ctx context.Context, username string) error {
	key := l.key(username)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	if count > l.maxAttempts {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "signin:" + username
}
