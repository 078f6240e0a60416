package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter backed by Redis, so the window
// counts are shared across replicas. Each key gets a counter that expires
// at the end of its window.
type RedisLimiter struct {
	client     *redis.Client
	limit      int
	windowSize time.Duration
	prefix     string
	failOpen   bool
}

// NewRedisLimiter creates a Redis-backed limiter allowing limit requests
// per windowSize for each key. When failOpen is true, Redis errors let
// the request through instead of rejecting it.
func NewRedisLimiter(client *redis.Client, limit int, windowSize time.Duration, prefix string, failOpen bool) *RedisLimiter {
	return &RedisLimiter{
		client:     client,
		limit:      limit,
		windowSize: windowSize,
		prefix:     prefix,
		failOpen:   failOpen,
	}
}

// Allow implements Limiter
func (rl *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", rl.prefix, key)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, rl.windowSize)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		if rl.failOpen {
			return Decision{Allowed: true, Limit: rl.limit, Remaining: rl.limit}, nil
		}
		return Decision{Allowed: false, Limit: rl.limit}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}

	retryAfter := ttl.Val()
	if retryAfter < 0 {
		retryAfter = rl.windowSize
	}

	return Decision{
		Allowed:    count <= rl.limit,
		Limit:      rl.limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}
