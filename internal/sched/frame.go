package sched

import (
	"reflect"
	"sync"
	"time"
)

// FrameSource schedules a callback for the host's next rendering frame.
// It is the host-side equivalent of requestAnimationFrame.
type FrameSource interface {
	// RequestFrame schedules fn for the next frame and returns a cancel
	// function. Cancelling after the frame fired is a no-op.
	RequestFrame(fn func()) (cancel func())
}

// frameState tracks whether a frame request is outstanding.
type frameState int

const (
	frameIdle frameState = iota
	framePending
)

// FrameScheduler coalesces any number of Schedule calls within one frame tick
// into a single frame callback. Callbacks scheduled more than once before the
// frame fires are deduplicated by function identity and each runs exactly once,
// in first-scheduled order.
type FrameScheduler struct {
	mu     sync.Mutex
	source FrameSource
	state  frameState
	cancel func()

	queue []func()
	seen  map[uintptr]struct{}
}

// NewFrameScheduler creates a scheduler over the given frame source.
func NewFrameScheduler(source FrameSource) *FrameScheduler {
	return &FrameScheduler{
		source: source,
		seen:   make(map[uintptr]struct{}),
	}
}

// Schedule enqueues fn for the next frame. If no frame request is pending one
// is issued; otherwise fn joins the in-flight batch. Scheduling the same
// function again before the frame fires is a no-op.
func (s *FrameScheduler) Schedule(fn func()) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := reflect.ValueOf(fn).Pointer()
	if _, dup := s.seen[id]; dup {
		return
	}
	s.seen[id] = struct{}{}
	s.queue = append(s.queue, fn)

	if s.state == frameIdle {
		s.state = framePending
		s.cancel = s.source.RequestFrame(s.fire)
	}
}

// fire drains the batch accumulated since the frame was requested.
func (s *FrameScheduler) fire() {
	s.mu.Lock()
	if s.state != framePending {
		// Cancelled between the host firing and us acquiring the lock.
		s.mu.Unlock()
		return
	}
	batch := s.queue
	s.queue = nil
	s.seen = make(map[uintptr]struct{})
	s.state = frameIdle
	s.cancel = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
}

// Cancel drops any pending frame request and the queued batch.
// After Cancel returns, no queued callback will fire.
func (s *FrameScheduler) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.queue = nil
	s.seen = make(map[uintptr]struct{})
	s.state = frameIdle
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Pending reports whether a frame request is outstanding.
func (s *FrameScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == framePending
}

// TimerFrameSource approximates a frame source with a fixed-interval timer.
// Hosts without a native frame callback (plain terminals, headless use) get
// close-enough coalescing at roughly 60 frames per second.
type TimerFrameSource struct {
	clock    Clock
	interval time.Duration
}

// NewTimerFrameSource creates a timer-backed frame source. A non-positive
// interval defaults to 16ms.
func NewTimerFrameSource(clock Clock, interval time.Duration) *TimerFrameSource {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &TimerFrameSource{clock: clock, interval: interval}
}

// RequestFrame schedules fn one interval from now.
func (t *TimerFrameSource) RequestFrame(fn func()) (cancel func()) {
	timer := t.clock.AfterFunc(t.interval, fn)
	return func() { timer.Stop() }
}
