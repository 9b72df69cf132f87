// Package hero rotates the public site's headline on a fixed interval.
package hero

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval matches the site's headline cycle.
const DefaultInterval = 3500 * time.Millisecond

// Rotator cycles through a fixed list of headlines. One goroutine advances
// the index on a ticker; readers take the mutex only long enough to copy
// the current value.
type Rotator struct {
	headlines []string
	interval  time.Duration

	mu    sync.RWMutex
	index int
}

// NewRotator builds a rotator over the given headlines. An empty list is
// allowed; Current then returns "" and rotation is a no-op.
func NewRotator(headlines []string, interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{
		headlines: append([]string(nil), headlines...),
		interval:  interval,
	}
}

// Start launches the rotation goroutine. It stops when ctx is cancelled.
func (r *Rotator) Start(ctx context.Context) {
	if len(r.headlines) < 2 {
		return // nothing to rotate
	}
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.advance()
			}
		}
	}()
}

func (r *Rotator) advance() {
	r.mu.Lock()
	r.index = (r.index + 1) % len(r.headlines)
	r.mu.Unlock()
}

// Current returns the displayed headline and its index.
func (r *Rotator) Current() (string, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.headlines) == 0 {
		return "", 0
	}
	return r.headlines[r.index], r.index
}

// Headlines returns a copy of the configured list.
func (r *Rotator) Headlines() []string {
	return append([]string(nil), r.headlines...)
}

// IndexAt computes which headline index is displayed after elapsed time:
// floor(elapsed/interval) mod n. Exposed for the rotation's timing
// contract; the ticker goroutine converges on the same sequence.
func IndexAt(elapsed, interval time.Duration, n int) int {
	if n <= 0 || interval <= 0 {
		return 0
	}
	ticks := int(elapsed / interval)
	return ticks % n
}
