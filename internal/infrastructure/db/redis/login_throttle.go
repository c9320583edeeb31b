package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLoginWindow = 15 * time.Minute

// LoginThrottle counts failed logins per key in Redis. The counter expires a
// window after the first failure it records.
// Key format: login_failures:<role>:<email>
type LoginThrottle struct {
	client redis.Cmdable
	window time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client redis.Cmdable, window time.Duration) *LoginThrottle {
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginThrottle{client: client, window: window}
}

// Failures returns the failures recorded for key in the current window.
func (t *LoginThrottle) Failures(ctx context.Context, key string) (int64, error) {
	n, err := t.client.Get(ctx, t.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("login throttle get: %w", err)
	}
	return n, nil
}

// RecordFailure increments the counter. INCR and EXPIRE NX run in one
// MULTI/EXEC so the window always starts with the first failure and a
// counter can never be left without a TTL.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) error {
	k := t.key(key)
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, t.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.key(key)).Err()
}

func (t *LoginThrottle) key(key string) string {
	return "login_failures:" + key
}
