package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/collabhub/server/internal/port/outbound"
)

const rateLimitKeyPrefix = "ratelimit:"

// rateLimiter implements outbound.RateLimiterPort with a fixed window counter.
type rateLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter adapter.
func NewRateLimiter(client redis.UniversalClient) outbound.RateLimiterPort {
	return &rateLimiter{client: client, now: time.Now}
}

// windowKey buckets the key by the start of the current window.
func (r *rateLimiter) windowKey(key string, window time.Duration) string {
	if window <= 0 {
		window = time.Second
	}
	bucket := r.now().UnixNano() / window.Nanoseconds()
	return fmt.Sprintf("%s%s:%d", rateLimitKeyPrefix, key, bucket)
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.windowKey(key, window)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= int64(limit), nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	count, err := r.client.Get(ctx, r.windowKey(key, window)).Int()
	if err != nil && err != redis.Nil {
		return 0, err
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
