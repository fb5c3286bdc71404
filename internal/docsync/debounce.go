package docsync

import (
	"sync"
	"time"
)

// Debouncer runs fn once after delay has passed without another Trigger.
// After Close returns, fn is never called again.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	closed   bool
	inflight sync.WaitGroup
}

// NewDebouncer creates a debouncer; nothing is scheduled until Trigger
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger cancels any pending run and schedules a new one
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a run is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// a stale timer can still fire if Stop lost the race
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.inflight.Add(1)
	d.mu.Unlock()

	defer d.inflight.Done()
	d.fn()
}

// Close cancels any pending run and waits for a running one to finish
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.inflight.Wait()
}
