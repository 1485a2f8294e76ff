package linear

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces calls a fixed minimum interval apart. The engine issues
// every remote call sequentially, so this is a bucket of size one: each
// Wait blocks until the interval since the previous admitted call has
// elapsed, then admits exactly one call.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewLimiter creates a limiter with the given minimum interval between
// calls. A zero or negative interval disables throttling.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the next call may proceed or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	wait := l.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	l.next = now.Add(wait + l.interval)
	l.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Interval returns the configured minimum interval.
func (l *Limiter) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}
