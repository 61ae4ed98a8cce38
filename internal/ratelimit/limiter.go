// Package ratelimit implements a fixed-window request counter in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result is the outcome of one counted request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type Limiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// New counts at most max requests per key in each window.
func New(client *redis.Client, prefix string, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, prefix: prefix, max: max, window: window}
}

// key is ratelimit:<prefix>:<id>.
func (l *Limiter) key(id string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.prefix, id)
}

// Allow counts one request for id. The window starts with the first request.
func (l *Limiter) Allow(ctx context.Context, id string) (Result, error) {
	key := l.key(id)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit ttl: %w", err)
	}
	if ttl < 0 {
		// The key lost its expiry (e.g. expire failed after incr); restart the window.
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = l.window
	}
	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   int(count) <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   ttl,
	}, nil
}
