package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimiter throttles callers with a fixed one-minute window counter in
// Redis. Public endpoints key by IP, authenticated ones by user ID.
type RateLimiter struct {
	client            *Client
	requestsPerMinute int
	burst             int
}

func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client:            client,
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
	}
}

// Allow records one request against key and reports whether it fits inside
// the current window. It also returns how many requests remain and when the
// window resets.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	counterKey := rateLimitKeyPrefix + key
	windowEnd := time.Now().Truncate(time.Minute).Add(time.Minute)

	pipe := r.client.rdb.Pipeline()
	incr := pipe.Incr(ctx, counterKey)
	// ExpireNX so a hot key keeps its original window instead of sliding.
	pipe.ExpireNX(ctx, counterKey, time.Minute)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("rate limit check: %w", err)
	}

	limit := int64(r.requestsPerMinute + r.burst)
	remaining := limit - incr.Val()
	if remaining < 0 {
		remaining = 0
	}

	return incr.Val() <= limit, int(remaining), windowEnd, nil
}

// Reset clears the counter for a key, letting the caller start a fresh window.
func (r *RateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.rdb.Del(ctx, rateLimitKeyPrefix+key).Err()
}
