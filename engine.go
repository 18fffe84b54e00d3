package viewportsense

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/nishadkindre/viewport-sense/internal/breakpoint"
	"github.com/nishadkindre/viewport-sense/internal/event"
	"github.com/nishadkindre/viewport-sense/internal/platform"
	"github.com/nishadkindre/viewport-sense/internal/sched"
)

// orientationSettleDelay lets the host finish rotating before metrics are
// read; immediate reads after an orientation event are unreliable on several
// platforms.
const orientationSettleDelay = 100 * time.Millisecond

// enginePhase is the engine lifecycle state.
type enginePhase int

const (
	// phaseUninitialized means no host platform is present. The engine
	// serves a static default state and attaches nothing.
	phaseUninitialized enginePhase = iota

	// phaseActive means signals are attached and recomputation runs.
	phaseActive

	// phaseDestroyed is terminal: listeners are detached, pending work is
	// cancelled, and the last state is frozen.
	phaseDestroyed
)

// Engine owns the authoritative viewport state. It subscribes to the host's
// native signals, recomputes state when they fire, detects transitions
// against the previous state, and republishes through the notification bus.
//
// All recomputation and delivery is synchronous: once a scheduled
// recomputation starts, it runs to completion, including fan-out, before
// control returns.
type Engine struct {
	table  *breakpoint.Table
	logger *log.Logger
	clock  sched.Clock
	plat   platform.Platform
	bus    *event.Bus

	enableTouch   bool
	enableHighDPI bool

	frames            *sched.FrameScheduler
	resizeDebounce    *sched.Debouncer[struct{}]
	visualDebounce    *sched.Debouncer[struct{}]
	orientationSettle *sched.Debouncer[struct{}]

	// recomputeFn is the single function identity scheduled on the frame
	// batch, so bursts dedupe to one run.
	recomputeFn func()

	mu       sync.Mutex
	phase    enginePhase
	state    State
	hasState bool
	cancels  []platform.CancelFunc
}

// New creates an engine from cfg. The only construction failure is a
// malformed breakpoint set, which indicates a caller bug and is returned
// rather than silently corrected.
//
// With a nil Config.Platform the engine is valid but inert: reads succeed
// with a deterministic default state, On returns no-op unsubscribes, and no
// listeners attach.
func New(cfg Config) (*Engine, error) {
	base := breakpoint.Defaults()
	if cfg.Breakpoints != nil {
		base = breakpoint.FromMap(cfg.Breakpoints)
	}
	table, err := breakpoint.Merge(base, cfg.CustomBreakpoints)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "viewport-sense: ", log.LstdFlags)
	}
	clock := cfg.clock
	if clock == nil {
		clock = sched.RealClock()
	}

	e := &Engine{
		table:         table,
		logger:        logger,
		clock:         clock,
		enableTouch:   cfg.EnableTouch,
		enableHighDPI: cfg.EnableHighDPI,
	}
	e.bus = event.NewBus(func(err error) {
		logger.Printf("handler fault: %v", err)
	})

	if cfg.Platform == nil {
		e.phase = phaseUninitialized
		e.state = defaultState(table)
		e.hasState = true
		return e, nil
	}

	delay := cfg.DebounceDelay
	if delay < 0 {
		delay = 0
	}

	e.phase = phaseActive
	e.plat = cfg.Platform
	e.frames = sched.NewFrameScheduler(e.plat.Frames())
	e.recomputeFn = e.recompute
	e.resizeDebounce = sched.NewDebouncer(clock, delay, func(struct{}) { e.recompute() })
	e.visualDebounce = sched.NewDebouncer(clock, delay, func(struct{}) { e.recompute() })
	e.orientationSettle = sched.NewDebouncer(clock, orientationSettleDelay, func(struct{}) { e.recompute() })

	e.attach()
	return e, nil
}

// attach registers the native signal adapters. Each adapter only requests a
// recomputation through a scheduling primitive; none computes state.
func (e *Engine) attach() {
	// Fine-grained resize observation batches per frame; hosts without it
	// fall back to the coarse resize event behind the debounce window.
	if cancel, ok := e.plat.ObserveResize(e.requestFrame); ok {
		e.cancels = append(e.cancels, cancel)
	} else {
		e.cancels = append(e.cancels, e.plat.OnResize(func() {
			e.resizeDebounce.Call(struct{}{})
		}))
	}

	// One width watch per threshold catches breakpoint-only changes in
	// hosts where the coarse resize never fires.
	for _, min := range e.table.Thresholds() {
		e.cancels = append(e.cancels, e.plat.OnWidthCross(min, e.requestFrame))
	}

	e.cancels = append(e.cancels, e.plat.OnOrientationChange(func() {
		e.orientationSettle.Call(struct{}{})
	}))

	// Visual viewport resizes cover keyboard show/hide, which can change
	// height without a window resize.
	if cancel, ok := e.plat.OnVisualViewportResize(func() {
		e.visualDebounce.Call(struct{}{})
	}); ok {
		e.cancels = append(e.cancels, cancel)
	}
}

// requestFrame schedules one recomputation on the next frame. Any number of
// calls before the frame fires coalesce.
func (e *Engine) requestFrame() {
	e.frames.Schedule(e.recomputeFn)
}

// recompute reads raw host values, derives the next state, detects
// transitions against the previous state, and emits. The destroyed check
// covers signals already in flight when Destroy ran.
func (e *Engine) recompute() {
	e.mu.Lock()
	if e.phase != phaseActive {
		e.mu.Unlock()
		return
	}

	next := e.derive(e.plat.Metrics())
	prev, had := e.state, e.hasState
	e.state = next
	e.hasState = true
	e.mu.Unlock()

	// Resize fires on every recomputation, changed or not; the change
	// events below are the conditional ones.
	e.bus.Emit(ResizeEvent{State: next})

	if !had {
		return
	}
	if prev.Breakpoint != next.Breakpoint {
		e.bus.Emit(BreakpointChangeEvent{New: next.Breakpoint, Old: prev.Breakpoint})
	}
	if prev.Orientation != next.Orientation {
		e.bus.Emit(OrientationChangeEvent{Orientation: next.Orientation})
	}
	if prev.IsTouch != next.IsTouch {
		e.bus.Emit(TouchChangeEvent{Touch: next.IsTouch})
	}
}

// derive assembles a State from raw metrics. Pure given the table and
// feature toggles.
func (e *Engine) derive(m platform.Metrics) State {
	width := m.InnerWidth
	if width < 0 {
		width = 0
	}
	height := m.InnerHeight
	if height < 0 {
		height = 0
	}

	ratio := 1.0
	if e.enableHighDPI && m.PixelRatio > 1 {
		ratio = m.PixelRatio
	}

	availW := m.AvailWidth
	if availW <= 0 {
		availW = width
	}
	availH := m.AvailHeight
	if availH <= 0 {
		availH = height
	}

	md, lg := e.table.DeviceThresholds()
	isMobile := width < md
	isTablet := !isMobile && width < lg

	orientation := Portrait
	if width > height {
		orientation = Landscape
	}

	return State{
		Width:           width,
		Height:          height,
		Breakpoint:      e.table.Classify(width),
		IsMobile:        isMobile,
		IsTablet:        isTablet,
		IsDesktop:       !isMobile && !isTablet,
		IsTouch:         e.enableTouch && m.TouchPoints > 0,
		Orientation:     orientation,
		PixelRatio:      ratio,
		AvailableWidth:  availW,
		AvailableHeight: availH,
	}
}

// defaultState is what reads return when no host is present: conservative
// values, no device class claimed.
func defaultState(table *breakpoint.Table) State {
	return State{
		Breakpoint:  table.Classify(0),
		Orientation: Portrait,
		PixelRatio:  1,
	}
}

// GetState returns the current authoritative state, computing it on first
// use if no signal has fired yet.
func (e *Engine) GetState() State {
	e.mu.Lock()
	if e.phase == phaseActive && !e.hasState {
		e.mu.Unlock()
		e.recompute()
		e.mu.Lock()
	}
	s := e.state
	e.mu.Unlock()
	return s
}

// GetBreakpoint returns the current breakpoint name.
func (e *Engine) GetBreakpoint() string { return e.GetState().Breakpoint }

// IsMobile reports whether the width is below the md threshold.
func (e *Engine) IsMobile() bool { return e.GetState().IsMobile }

// IsTablet reports whether the width is between the md and lg thresholds.
func (e *Engine) IsTablet() bool { return e.GetState().IsTablet }

// IsDesktop reports whether the width is at or above the lg threshold.
func (e *Engine) IsDesktop() bool { return e.GetState().IsDesktop }

// IsTouch reports the current touch capability snapshot.
func (e *Engine) IsTouch() bool { return e.GetState().IsTouch }

// On registers a handler for kind and returns an idempotent unsubscribe.
// On an engine without a host, or after Destroy, the unsubscribe is a no-op
// and nothing registers, since no events will ever fire.
func (e *Engine) On(kind Kind, handler Handler) func() {
	e.mu.Lock()
	inert := e.phase != phaseActive
	e.mu.Unlock()
	if inert {
		return func() {}
	}
	return e.bus.On(kind, handler)
}

// Off removes one previously registered handler for kind by function
// identity. Absent handlers are a no-op.
func (e *Engine) Off(kind Kind, handler Handler) {
	e.bus.Off(kind, handler)
}

// Breakpoints returns the configured tier names in ascending threshold
// order.
func (e *Engine) Breakpoints() []string { return e.table.Names() }

// Above reports whether the current width is at or above the named tier's
// threshold. Unknown names warn and report false rather than failing.
func (e *Engine) Above(name string) bool {
	min, ok := e.table.Min(name)
	if !ok {
		e.logger.Printf("unknown breakpoint %q in Above", name)
		return false
	}
	return e.GetState().Width >= min
}

// Below reports whether the current width is below the named tier's
// threshold. Unknown names warn and report false.
func (e *Engine) Below(name string) bool {
	min, ok := e.table.Min(name)
	if !ok {
		e.logger.Printf("unknown breakpoint %q in Below", name)
		return false
	}
	return e.GetState().Width < min
}

// Between reports whether the current width is within [from, to) by tier
// thresholds. Unknown names warn and report false.
func (e *Engine) Between(from, to string) bool {
	lo, ok := e.table.Min(from)
	if !ok {
		e.logger.Printf("unknown breakpoint %q in Between", from)
		return false
	}
	hi, ok := e.table.Min(to)
	if !ok {
		e.logger.Printf("unknown breakpoint %q in Between", to)
		return false
	}
	w := e.GetState().Width
	return w >= lo && w < hi
}

// Destroy tears down all native listeners, cancels pending scheduled work,
// and destroys the bus. Reads keep returning the last computed state. No
// recomputation or emission happens after Destroy returns, even for signals
// already in flight. Destroy is idempotent.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.phase == phaseDestroyed {
		e.mu.Unlock()
		return
	}
	wasActive := e.phase == phaseActive
	e.phase = phaseDestroyed
	cancels := e.cancels
	e.cancels = nil
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if wasActive {
		e.frames.Cancel()
		e.resizeDebounce.Cancel()
		e.visualDebounce.Cancel()
		e.orientationSettle.Cancel()
	}
	e.bus.Destroy()
}

// Destroyed reports whether Destroy has been called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == phaseDestroyed
}

// Stats returns the notification bus counters.
func (e *Engine) Stats() event.Stats { return e.bus.Stats() }
