package watcher

import (
	"context"
	"time"
)

const minPollInterval = 100 * time.Millisecond

// StartPolling triggers detect() on a fixed interval.
func (w *Watcher) StartPolling(ctx context.Context) {
	w.mu.RLock()
	interval := w.interval
	w.mu.RUnlock()
	if interval < minPollInterval {
		interval = minPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.detect()

			w.mu.RLock()
			next := w.interval
			w.mu.RUnlock()
			if next >= minPollInterval && next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}
