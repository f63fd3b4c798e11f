// internal/common/ratelimit/limiter.go

// Package ratelimit bounds outbound calls to the AI service with a fixed
// window counter in Redis, shared across worker processes. The limiter is
// an explicitly constructed dependency wired in at process start.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	rdb      *redis.Client
	prefix   string
	requests int
	window   time.Duration
}

func New(rdb *redis.Client, prefix string, requests int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:      rdb,
		prefix:   prefix,
		requests: requests,
		window:   window,
	}
}

// Allow reports whether one more call is permitted within the current
// window. The counter key expires with the window, so an idle limiter
// leaves nothing behind in Redis.
func (l *Limiter) Allow(ctx context.Context) (bool, error) {
	key := fmt.Sprintf("%s:%d", l.prefix, time.Now().UnixMilli()/l.window.Milliseconds())

	pipe := l.rdb.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return count.Val() <= int64(l.requests), nil
}
