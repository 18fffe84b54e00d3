package sched

import (
	"sync"
	"time"
)

// debounceState tracks whether a timer is armed.
type debounceState int

const (
	debounceIdle debounceState = iota
	debouncePending
)

// Debouncer delivers the last Call within a quiet window, exactly once, delay
// after the final Call. Calls inside the window reset the timer and replace
// the pending argument.
type Debouncer[T any] struct {
	mu    sync.Mutex
	clock Clock
	delay time.Duration
	fn    func(T)

	state debounceState
	timer Timer
	last  T

	// gen counts armings. Each timer callback carries the generation it
	// was armed for; a fire whose generation is stale lost a race with a
	// later Call and must not deliver, or the new quiet window would be
	// cut short.
	gen uint64
}

// NewDebouncer creates a debouncer invoking fn with the most recent argument
// once the quiet window elapses. A negative delay is treated as zero (still
// deferred through the clock, never synchronous).
func NewDebouncer[T any](clock Clock, delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{clock: clock, delay: delay, fn: fn}
}

// Call records arg as the pending delivery and restarts the quiet window.
// Each Call arms a fresh timer rather than resetting the old one: a reset
// can lose the race against a timer that has already fired but not yet run,
// and the stale run would deliver before the new window elapsed.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = arg
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.state = debouncePending
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire delivers the pending argument if gen is still the current arming.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.state != debouncePending || gen != d.gen {
		// Cancelled, or re-armed after this timer fired but before it
		// got the lock.
		d.mu.Unlock()
		return
	}
	arg := d.last
	var zero T
	d.last = zero
	d.state = debounceIdle
	d.timer = nil
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops the pending delivery, if any. After Cancel returns the wrapped
// function will not run until Call is used again.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	timer := d.timer
	var zero T
	d.last = zero
	d.state = debounceIdle
	d.timer = nil
	d.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
}

// Flush delivers the pending argument immediately, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.state != debouncePending {
		d.mu.Unlock()
		return
	}
	timer := d.timer
	arg := d.last
	var zero T
	d.last = zero
	d.state = debounceIdle
	d.timer = nil
	d.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	d.fn(arg)
}

// Pending reports whether a delivery is waiting on the quiet window.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == debouncePending
}
