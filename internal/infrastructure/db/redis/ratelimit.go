package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 5
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter throttles repeated failed logins per username, backed by Redis.
// Key format: login_failures:<username>
//
// The counter is keyed on the requested username whether or not that user
// exists, so the throttle itself leaks nothing about registered names.
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive maxFailures or window fall back to the defaults.
func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window}
}

// TooManyFailures reports whether the username has exhausted its attempts.
func (l *LoginLimiter) TooManyFailures(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("limiter get: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure bumps the failure counter; the window starts at the first
// failure and is not extended by later ones.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("limiter expire: %w", err)
		}
	}
	return nil
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *LoginLimiter) key(username string) string {
	return "login_failures:" + username
}
