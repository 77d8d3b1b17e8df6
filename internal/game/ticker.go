package game

import (
	"context"
	"sync"
	"time"
)

// TickerDisplay is a headless Display driven by a time.Ticker.
type TickerDisplay struct {
	interval time.Duration

	mu      sync.Mutex
	pending func(time.Time)
}

func NewTickerDisplay(interval time.Duration) *TickerDisplay {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerDisplay{interval: interval}
}

func (d *TickerDisplay) RequestFrame(cb func(now time.Time)) {
	d.mu.Lock()
	d.pending = cb
	d.mu.Unlock()
}

// Run delivers frames until ctx is done or nothing re-arms. Callbacks run on
// the calling goroutine.
func (d *TickerDisplay) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			d.mu.Lock()
			cb := d.pending
			d.pending = nil
			d.mu.Unlock()
			if cb == nil {
				return nil
			}
			cb(now)
		}
	}
}
