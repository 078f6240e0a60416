package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-memory fixed-window limiter. Suitable for a
// single process; use RedisLimiter when running multiple replicas.
type MemoryLimiter struct {
	mu          sync.Mutex
	clients     map[string]*window
	limit       int
	windowSize  time.Duration
	cleanupTick time.Duration
}

type window struct {
	count   int
	started time.Time
}

// NewMemoryLimiter creates an in-memory limiter allowing limit requests
// per windowSize for each key
func NewMemoryLimiter(limit int, windowSize time.Duration) *MemoryLimiter {
	ml := &MemoryLimiter{
		clients:     make(map[string]*window),
		limit:       limit,
		windowSize:  windowSize,
		cleanupTick: windowSize * 2,
	}
	go ml.cleanup()
	return ml
}

// cleanup removes expired windows periodically
func (ml *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(ml.cleanupTick)
	defer ticker.Stop()

	for range ticker.C {
		ml.mu.Lock()
		now := time.Now()
		for key, w := range ml.clients {
			if now.Sub(w.started) > ml.windowSize*2 {
				delete(ml.clients, key)
			}
		}
		ml.mu.Unlock()
	}
}

// Allow implements Limiter
func (ml *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	w, exists := ml.clients[key]

	if !exists || now.Sub(w.started) >= ml.windowSize {
		ml.clients[key] = &window{count: 1, started: now}
		return Decision{Allowed: true, Limit: ml.limit, Remaining: ml.limit - 1}, nil
	}

	if w.count < ml.limit {
		w.count++
		return Decision{Allowed: true, Limit: ml.limit, Remaining: ml.limit - w.count}, nil
	}

	return Decision{
		Allowed:    false,
		Limit:      ml.limit,
		Remaining:  0,
		RetryAfter: ml.windowSize - now.Sub(w.started),
	}, nil
}
