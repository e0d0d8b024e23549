package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultWindow      = time.Minute
	defaultMaxAttempts = 10
)

// LoginLimiter throttles authentication attempts per client address using a
// fixed window counter in Redis.
// Key format: login_attempts:<ip>
type LoginLimiter struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive window or maxAttempts fall back to the defaults.
func NewLoginLimiter(client *redis.Client, window time.Duration, maxAttempts int64) *LoginLimiter {
	if window <= 0 {
		window = defaultWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &LoginLimiter{client: client, window: window, maxAttempts: maxAttempts}
}

// Allow records one attempt for ip and reports whether it is still within
// the window budget. The first attempt in a window sets the key's expiry.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	key := l.key(ip)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return n <= l.maxAttempts, nil
}

// Reset clears the counter for ip, used after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, ip string) error {
	return l.client.Del(ctx, l.key(ip)).Err()
}

func (l *LoginLimiter) key(ip string) string {
	return fmt.Sprintf("login_attempts:%s", ip)
}
