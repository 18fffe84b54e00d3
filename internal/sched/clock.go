package sched

import "time"

// Timer is a cancellable one-shot timer. Re-arming is done by stopping and
// creating a fresh timer, never by resetting: a reset races against a fire
// already in flight.
type Timer interface {
	// Stop prevents the timer from firing.
	// Returns false if the timer already fired or was stopped.
	Stop() bool
}

// Clock creates timers and reports the current time. The real implementation
// delegates to the time package; tests substitute a manual clock to make
// timing-sensitive behavior deterministic.
type Clock interface {
	// AfterFunc schedules fn to run after d on the clock's own goroutine.
	AfterFunc(d time.Duration, fn func()) Timer

	// Now returns the clock's current time.
	Now() time.Time
}

// realClock implements Clock using the time package.
type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (realClock) Now() time.Time {
	return time.Now()
}
