package backend

import (
	"context"
	"sync"
	"time"
)

// throttle spaces directory scans at least minGap apart, so a short poll
// interval cannot list the same directories back to back.
type throttle struct {
	minGap time.Duration

	mu       sync.Mutex
	lastScan time.Time
}

func newThrottle(minGap time.Duration) *throttle {
	if minGap < 0 {
		minGap = 0
	}
	return &throttle{minGap: minGap}
}

// wait blocks until the next scan may start. It returns false when ctx is
// cancelled first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.minGap == 0 {
		return ctx.Err() == nil
	}
	t.mu.Lock()
	delay := time.Until(t.lastScan.Add(t.minGap))
	t.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}

	t.mu.Lock()
	t.lastScan = time.Now()
	t.mu.Unlock()
	return ctx.Err() == nil
}
