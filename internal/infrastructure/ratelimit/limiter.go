// Package ratelimit provides fixed-window request limiters keyed by caller.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a limiter check. RetryAfter is the time left
// in the current window; it is only meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
// Implementations count requests in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
