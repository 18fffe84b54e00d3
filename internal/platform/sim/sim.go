// Package sim provides a deterministic, scriptable host for tests. Signals
// fire synchronously from the mutating call; frames and timers are pumped
// manually.
package sim

import (
	"sort"
	"sync"

	"github.com/nishadkindre/viewport-sense/internal/platform"
	"github.com/nishadkindre/viewport-sense/internal/sched"
)

// Host is a simulated platform.
type Host struct {
	mu      sync.Mutex
	metrics platform.Metrics
	scrollX int
	scrollY int

	nextID      int
	observers   map[int]func()
	resize      map[int]func()
	orientation map[int]func()
	visual      map[int]func()
	scroll      map[int]func()
	widthCross  map[int]widthWatch

	hasObserver       bool
	hasVisualViewport bool

	frames *sched.ManualFrameSource
	clock  *sched.ManualClock
}

// widthWatch is a registered min-width crossing watch.
type widthWatch struct {
	min int
	fn  func()
}

// Option configures a simulated host.
type Option func(*Host)

// WithoutResizeObserver disables the fine-grained resize observation path,
// forcing callers onto the coarse resize event.
func WithoutResizeObserver() Option {
	return func(h *Host) { h.hasObserver = false }
}

// WithVisualViewport enables the distinct visual viewport signal.
func WithVisualViewport() Option {
	return func(h *Host) { h.hasVisualViewport = true }
}

// WithMetrics sets the initial raw metrics.
func WithMetrics(m platform.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// New creates a simulated host at 1024x768, pixel ratio 1, no touch.
func New(opts ...Option) *Host {
	h := &Host{
		metrics: platform.Metrics{
			InnerWidth:  1024,
			InnerHeight: 768,
			PixelRatio:  1,
			AvailWidth:  1024,
			AvailHeight: 768,
			Identity:    "sim",
		},
		observers:   make(map[int]func()),
		resize:      make(map[int]func()),
		orientation: make(map[int]func()),
		visual:      make(map[int]func()),
		scroll:      make(map[int]func()),
		widthCross:  make(map[int]widthWatch),
		hasObserver: true,
		frames:      sched.NewManualFrameSource(),
		clock:       sched.NewManualClock(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Clock returns the host's manual clock. Tests advance it to fire debounce
// and settle timers.
func (h *Host) Clock() *sched.ManualClock { return h.clock }

// PumpFrame fires all pending frame requests.
func (h *Host) PumpFrame() { h.frames.Pump() }

// Metrics implements platform.Platform.
func (h *Host) Metrics() platform.Metrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.metrics
}

// Frames implements platform.Platform.
func (h *Host) Frames() sched.FrameSource { return h.frames }

// ScrollPosition implements platform.Platform.
func (h *Host) ScrollPosition() (x, y int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scrollX, h.scrollY
}

// ObserveResize implements platform.Platform.
func (h *Host) ObserveResize(fn func()) (platform.CancelFunc, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.hasObserver {
		return nil, false
	}
	return h.register(h.observers, fn), true
}

// OnResize implements platform.Platform.
func (h *Host) OnResize(fn func()) platform.CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.register(h.resize, fn)
}

// OnOrientationChange implements platform.Platform.
func (h *Host) OnOrientationChange(fn func()) platform.CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.register(h.orientation, fn)
}

// OnVisualViewportResize implements platform.Platform.
func (h *Host) OnVisualViewportResize(fn func()) (platform.CancelFunc, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.hasVisualViewport {
		return nil, false
	}
	return h.register(h.visual, fn), true
}

// OnScroll implements platform.Platform.
func (h *Host) OnScroll(fn func()) platform.CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.register(h.scroll, fn)
}

// OnWidthCross implements platform.Platform.
func (h *Host) OnWidthCross(minWidth int, fn func()) platform.CancelFunc {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.widthCross[id] = widthWatch{min: minWidth, fn: fn}
	return func() {
		h.mu.Lock()
		delete(h.widthCross, id)
		h.mu.Unlock()
	}
}

// register adds fn to a signal set. Caller holds h.mu.
func (h *Host) register(set map[int]func(), fn func()) platform.CancelFunc {
	h.nextID++
	id := h.nextID
	set[id] = fn
	return func() {
		h.mu.Lock()
		delete(set, id)
		h.mu.Unlock()
	}
}

// SetSize changes the viewport dimensions and fires the resize observation,
// coarse resize, and any width watches whose threshold was crossed. Each
// SetSize models one native signal burst.
func (h *Host) SetSize(width, height int) {
	h.mu.Lock()
	oldWidth := h.metrics.InnerWidth
	h.metrics.InnerWidth = width
	h.metrics.InnerHeight = height
	h.metrics.AvailWidth = width
	h.metrics.AvailHeight = height

	fns := h.snapshot(h.observers)
	fns = append(fns, h.snapshot(h.resize)...)
	for _, w := range h.sortedWatches() {
		if (oldWidth >= w.min) != (width >= w.min) {
			fns = append(fns, w.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SetTouchPoints changes the reported touch capability and fires resize-class
// signals, as attaching an input device does not resize the host.
func (h *Host) SetTouchPoints(n int) {
	h.mu.Lock()
	h.metrics.TouchPoints = n
	fns := h.snapshot(h.observers)
	fns = append(fns, h.snapshot(h.resize)...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SetPixelRatio changes the reported device pixel ratio.
func (h *Host) SetPixelRatio(r float64) {
	h.mu.Lock()
	h.metrics.PixelRatio = r
	fns := h.snapshot(h.observers)
	fns = append(fns, h.snapshot(h.resize)...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SetInsets changes the reported safe-area insets and fires resize signals.
func (h *Host) SetInsets(in platform.Insets) {
	h.mu.Lock()
	h.metrics.Insets = in
	fns := h.snapshot(h.observers)
	fns = append(fns, h.snapshot(h.resize)...)
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Rotate swaps width and height and fires the orientation signal.
func (h *Host) Rotate() {
	h.mu.Lock()
	h.metrics.InnerWidth, h.metrics.InnerHeight = h.metrics.InnerHeight, h.metrics.InnerWidth
	h.metrics.AvailWidth, h.metrics.AvailHeight = h.metrics.AvailHeight, h.metrics.AvailWidth
	fns := h.snapshot(h.orientation)
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// FireVisualViewportResize fires the visual viewport signal, optionally
// shrinking the reported height first (keyboard show).
func (h *Host) FireVisualViewportResize(height int) {
	h.mu.Lock()
	if height > 0 {
		h.metrics.InnerHeight = height
	}
	fns := h.snapshot(h.visual)
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SetScroll moves the scroll position and fires the scroll signal.
func (h *Host) SetScroll(x, y int) {
	h.mu.Lock()
	h.scrollX, h.scrollY = x, y
	fns := h.snapshot(h.scroll)
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SetIdentity changes the host self-description.
func (h *Host) SetIdentity(id string) {
	h.mu.Lock()
	h.metrics.Identity = id
	h.mu.Unlock()
}

// SetMediaFeatures sets the accessibility preference booleans.
func (h *Host) SetMediaFeatures(reducedMotion, darkScheme, highContrast bool) {
	h.mu.Lock()
	h.metrics.ReducedMotion = reducedMotion
	h.metrics.DarkScheme = darkScheme
	h.metrics.HighContrast = highContrast
	h.mu.Unlock()
}

// snapshot copies a signal set in registration order. Caller holds h.mu.
func (h *Host) snapshot(set map[int]func()) []func() {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, set[id])
	}
	return fns
}

// sortedWatches copies the width watches in registration order. Caller holds h.mu.
func (h *Host) sortedWatches() []widthWatch {
	ids := make([]int, 0, len(h.widthCross))
	for id := range h.widthCross {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]widthWatch, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.widthCross[id])
	}
	return out
}

var _ platform.Platform = (*Host)(nil)
