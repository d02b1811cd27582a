// Package debounce collapses bursts of calls into a single delayed
// invocation, the way a search box waits for the user to stop typing.
package debounce

import (
	"sync"
	"time"
)

// Debouncer owns at most one pending scheduled call. Schedule cancels any
// pending call before arming a new one, so only the last call of a burst
// fires once the quiet period elapses.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	timer   *time.Timer
	stopped bool
}

func New(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Schedule arms fn to run after the quiet period, cancelling any previously
// scheduled fn that has not fired yet. fn runs on a timer goroutine.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop cancels any pending call and rejects further schedules.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
