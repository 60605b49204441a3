package network

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle grants at most one request per interval to everyone sharing it.
type Throttle struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewThrottle creates a throttle. A non-positive interval never blocks.
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{
		interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next slot is granted or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

func (t *Throttle) Interval() time.Duration {
	return t.interval
}
