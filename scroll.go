package viewportsense

import (
	"sync"
	"time"
)

// velocityWindow bounds how much scroll history feeds the velocity estimate.
// Samples older than this are discarded; nothing beyond the window persists.
const velocityWindow = 250 * time.Millisecond

// ScrollDirection is the vertical scroll direction of the latest movement.
type ScrollDirection string

const (
	ScrollNone ScrollDirection = "none"
	ScrollUp   ScrollDirection = "up"
	ScrollDown ScrollDirection = "down"
)

// ScrollState is a scroll position snapshot with derived movement.
type ScrollState struct {
	// X and Y are the current scroll offsets.
	X int
	Y int

	// Direction is the vertical direction of the latest movement.
	Direction ScrollDirection

	// VelocityY is the vertical velocity in pixels per second, estimated
	// over the velocity window.
	VelocityY float64
}

// scrollSample is one timestamped Y reading.
type scrollSample struct {
	at time.Time
	y  int
}

// ScrollTracker observes the host scroll position, batching bursts per frame
// and deriving direction and velocity.
type ScrollTracker struct {
	mu       sync.Mutex
	eng      *Engine
	cancel   func()
	updateFn func()
	fn       func(ScrollState)
	samples  []scrollSample
	state    ScrollState
	stopped  bool
}

// TrackScroll starts observing scroll movement, invoking fn after each
// frame-batched update. On an engine without a host the tracker is inert.
// Stop the tracker when done; Destroy on the engine also silences it.
func (e *Engine) TrackScroll(fn func(ScrollState)) *ScrollTracker {
	t := &ScrollTracker{
		eng:   e,
		fn:    fn,
		state: ScrollState{Direction: ScrollNone},
	}

	e.mu.Lock()
	active := e.phase == phaseActive
	e.mu.Unlock()
	if !active {
		t.stopped = true
		return t
	}

	t.updateFn = t.update
	cancel := e.plat.OnScroll(func() {
		e.frames.Schedule(t.updateFn)
	})
	t.cancel = func() { cancel() }
	return t
}

// update samples the current position and recomputes movement.
func (t *ScrollTracker) update() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	x, y := t.eng.plat.ScrollPosition()
	now := t.eng.clock.Now()

	prevY := y
	if n := len(t.samples); n > 0 {
		prevY = t.samples[n-1].y
	}
	t.samples = append(t.samples, scrollSample{at: now, y: y})

	// Drop samples that fell out of the velocity window.
	cutoff := now.Add(-velocityWindow)
	trim := 0
	for trim < len(t.samples)-1 && t.samples[trim].at.Before(cutoff) {
		trim++
	}
	t.samples = t.samples[trim:]

	state := ScrollState{X: x, Y: y, Direction: ScrollNone}
	switch {
	case y < prevY:
		state.Direction = ScrollUp
	case y > prevY:
		state.Direction = ScrollDown
	}
	if n := len(t.samples); n > 1 {
		first := t.samples[0]
		dt := now.Sub(first.at).Seconds()
		if dt > 0 {
			state.VelocityY = float64(y-first.y) / dt
		}
	}
	t.state = state
	fn := t.fn
	t.mu.Unlock()

	if fn != nil {
		fn(state)
	}
}

// State returns the latest scroll snapshot.
func (t *ScrollTracker) State() ScrollState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop detaches the tracker from the host. Idempotent.
func (t *ScrollTracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	cancel := t.cancel
	t.cancel = nil
	t.samples = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
