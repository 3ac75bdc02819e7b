package tui

import (
	"context"
	"sync"
	"time"

	"github.com/koyoi/falls/internal/core"
	"github.com/koyoi/falls/internal/director"
)

// Hub serializes access to a Director so several views (the local monitor,
// SSH sessions, the headless loop) can share it. Exactly one of them drives
// ticks; the rest read snapshots.
type Hub struct {
	mu     sync.Mutex
	d      *director.Director
	params core.Params
}

// NewHub wraps a started director.
func NewHub(d *director.Director) *Hub {
	return &Hub{d: d, params: d.Params()}
}

// Tick advances the director by dt seconds.
func (h *Hub) Tick(dt float64) core.Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.params = h.d.Tick(dt)
	return h.params
}

// Snapshot returns the parameters of the last tick.
func (h *Hub) Snapshot() core.Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

// TriggerCapture re-arms the last loaded capture request.
func (h *Hub) TriggerCapture() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.d.TriggerCapture()
}

// WatchDir returns the directory the director watches.
func (h *Hub) WatchDir() string {
	return h.d.WatchDir()
}

// Run ticks the director at tickRate with the measured wall-clock delta
// until ctx is cancelled. Missed ticks are not replayed; the next tick just
// sees a larger delta.
func (h *Hub) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		tickRate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			h.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}
