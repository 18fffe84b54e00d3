package sched

import (
	"sort"
	"sync"
	"time"
)

// ManualClock is a Clock driven explicitly by Advance. It exists for
// deterministic tests of timing-sensitive logic and for the simulated host.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

// NewManualClock creates a manual clock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{timers: make(map[int]*manualTimer)}
}

// AfterFunc registers fn to fire when the clock advances past d from now.
func (c *ManualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d < 0 {
		d = 0
	}
	c.nextID++
	t := &manualTimer{
		clock:    c,
		id:       c.nextID,
		deadline: c.now + d,
		fn:       fn,
	}
	c.timers[t.id] = t
	return t
}

// Now returns the manual clock's current time as an offset from a fixed
// epoch, so velocity math over sampled timestamps stays deterministic.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return manualEpoch.Add(c.now)
}

// manualEpoch anchors ManualClock.Now.
var manualEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Advance moves the clock forward, firing due timers in deadline order.
// Timers armed by fired callbacks participate if they fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	for {
		t := c.dueLocked(target)
		if t == nil {
			break
		}
		c.now = t.deadline
		delete(c.timers, t.id)
		fn := t.fn
		c.mu.Unlock()
		fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending returns the number of armed timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// dueLocked returns the earliest timer with deadline <= target, preferring
// lower IDs on ties so firing order matches arming order.
func (c *ManualClock) dueLocked(target time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range c.timers {
		if t.deadline <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

// manualTimer is a timer owned by a ManualClock.
type manualTimer struct {
	clock    *ManualClock
	id       int
	deadline time.Duration
	fn       func()
}

// Stop removes the timer from its clock.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	_, armed := t.clock.timers[t.id]
	delete(t.clock.timers, t.id)
	return armed
}

// ManualFrameSource is a FrameSource fired explicitly by Pump. One Pump call
// fires every request outstanding at the time of the call.
type ManualFrameSource struct {
	mu     sync.Mutex
	nextID int
	frames map[int]func()
}

// NewManualFrameSource creates an empty manual frame source.
func NewManualFrameSource() *ManualFrameSource {
	return &ManualFrameSource{frames: make(map[int]func())}
}

// RequestFrame registers fn for the next Pump.
func (m *ManualFrameSource) RequestFrame(fn func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.frames[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.frames, id)
		m.mu.Unlock()
	}
}

// Pump fires all outstanding frame requests in registration order.
func (m *ManualFrameSource) Pump() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.frames))
	for id := range m.frames {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.frames[id])
		delete(m.frames, id)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// PendingFrames returns the number of outstanding frame requests.
func (m *ManualFrameSource) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}
