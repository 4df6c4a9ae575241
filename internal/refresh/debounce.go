// Package refresh schedules derived-view recomputation (connections,
// outline, shadow export) off the store's write path. Work is debounced
// by quiescence and stale tasks are superseded by epoch comparison
// rather than cancelled.
package refresh

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDelay is the quiescence window before a recompute fires.
const DefaultDelay = 300 * time.Millisecond

// Debouncer coalesces bursts of triggers per named view. Every Trigger
// bumps that view's epoch and schedules the work after the delay; when
// the timer fires, the work runs only if no newer trigger has bumped the
// epoch since. A superseded task is silently dropped.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	epochs map[string]uint64
	log    *zap.Logger
}

func NewDebouncer(delay time.Duration, log *zap.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Debouncer{
		delay:  delay,
		epochs: make(map[string]uint64),
		log:    log,
	}
}

// Trigger schedules fn for view after the quiescence delay, superseding
// any earlier pending trigger for the same view.
func (d *Debouncer) Trigger(view string, fn func()) {
	d.mu.Lock()
	d.epochs[view]++
	epoch := d.epochs[view]
	d.mu.Unlock()

	time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.epochs[view]
		d.mu.Unlock()
		if current != epoch {
			d.log.Debug("stale refresh skipped",
				zap.String("view", view),
				zap.Uint64("epoch", epoch),
				zap.Uint64("current", current))
			return
		}
		fn()
	})
}
