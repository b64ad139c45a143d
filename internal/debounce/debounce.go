// Package debounce provides the cancellable quiet-period timer the
// engine's coordinators use for their re-render and re-validate windows.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid successive triggers into a single callback after
// a quiet period. It backs the render and validation debounce windows: each
// new trigger restarts the window, and only the final quiet period fires.
//
// Thread-safety: all methods are safe for concurrent use. The callback is
// guaranteed to not be called concurrently with itself from the debouncer.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // sequence number to detect stale callbacks
	callback func()
}

// New creates a Debouncer with the specified delay.
func New(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Call schedules the callback to run after the debounce delay.
//
// Calling again within the delay replaces the pending schedule - there is no
// queueing of stale runs; the callback fires once after the final quiet
// period. Returns true when an already pending schedule was replaced.
func (d *Debouncer) Call() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced := d.pending
	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// Only execute if this is still the current scheduled callback.
		if d.pending && d.seq == currentSeq && d.callback != nil {
			d.pending = false
			d.mu.Unlock()
			d.callback()
		} else {
			d.mu.Unlock()
		}
	})
	return replaced
}

// Cancel cancels any pending debounced call. A canceled schedule never
// fires, even if its timer has already started racing for the lock.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// Increment seq to invalidate any running timer callback.
	d.seq++
	d.pending = false
}

// IsPending returns true if a debounced call is scheduled.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
