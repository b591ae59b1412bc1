// Package debounce delays a callback until its input has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

const DefaultWait = 500 * time.Millisecond

// Debouncer owns at most one pending timer. Every Trigger replaces the pending value and
// restarts the wait, so only the last value of a burst reaches the callback.
type Debouncer[T any] struct {
	mu      sync.Mutex
	wait    time.Duration
	fn      func(T)
	last    T
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New returns a Debouncer calling fn after wait of quiet. A non-positive wait means DefaultWait.
func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Debouncer[T]{wait: wait, fn: fn}
}

func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	// gen guards against a timer that already fired and is waiting on mu
	d.gen++
	gen := d.gen
	d.last = v
	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.gen != gen || d.stopped {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		last := d.last
		d.mu.Unlock()

		d.fn(last)
	})
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending callback, if any. Later triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs the pending callback immediately instead of waiting for the quiet window.
// It reports whether there was one.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.timer == nil || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	v := d.last
	d.mu.Unlock()

	d.fn(v)
	return true
}
