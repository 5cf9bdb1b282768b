package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// pacer enforces a minimum spacing between consecutive requests. Unlike a
// token bucket it never allows bursts: the floor holds regardless of how
// long the caller was idle or how large the batch is.
type pacer struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func newPacer(interval time.Duration) *pacer {
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	return &pacer{interval: interval}
}

// wait blocks until the interval since the previous request has elapsed or
// the context is canceled.
func (p *pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	delay := time.Until(next)
	if delay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("pacer canceled: %w", ctx.Err())
	case <-time.After(delay):
		return nil
	}
}
