// Package terminal implements the platform abstraction over a tcell screen,
// treating terminal cells as device-independent pixels. It is the host used
// by cmd/vpsense and by anything embedding the engine in a TUI.
package terminal

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nishadkindre/viewport-sense/internal/platform"
	"github.com/nishadkindre/viewport-sense/internal/sched"
)

// Host adapts a tcell screen to platform.Platform.
type Host struct {
	screen tcell.Screen
	frames sched.FrameSource

	mu          sync.Mutex
	nextID      int
	resize      map[int]func()
	observers   map[int]func()
	orientation map[int]func()
	widthCross  map[int]widthWatch
	lastWidth   int
	lastHeight  int
	closed      bool

	// Non-resize events are forwarded here for the embedding application.
	events chan tcell.Event

	wg sync.WaitGroup
}

// widthWatch is a registered min-width crossing watch.
type widthWatch struct {
	min int
	fn  func()
}

// New creates a host over a fresh tcell screen and starts its event loop.
func New() (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen creates a host over an initialized screen. The host takes
// over event polling; the embedding application reads keys and mouse events
// from Events. Tests pass a tcell simulation screen.
func NewWithScreen(screen tcell.Screen) *Host {
	w, h := screen.Size()
	host := &Host{
		screen:      screen,
		frames:      sched.NewTimerFrameSource(sched.RealClock(), 16*time.Millisecond),
		resize:      make(map[int]func()),
		observers:   make(map[int]func()),
		orientation: make(map[int]func()),
		widthCross:  make(map[int]widthWatch),
		lastWidth:   w,
		lastHeight:  h,
		events:      make(chan tcell.Event, 16),
	}
	host.wg.Add(1)
	go host.loop()
	return host
}

// Screen returns the underlying tcell screen for drawing.
func (h *Host) Screen() tcell.Screen { return h.screen }

// Events returns the stream of non-resize tcell events. The channel closes
// when the host closes.
func (h *Host) Events() <-chan tcell.Event { return h.events }

// Close stops the event loop and finalizes the screen. Idempotent.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	// Fini unblocks PollEvent, ending the loop.
	h.screen.Fini()
	h.wg.Wait()
	close(h.events)
}

// loop polls tcell events, turning resizes into platform signals and
// forwarding everything else to the embedding application.
func (h *Host) loop() {
	defer h.wg.Done()
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		if resize, ok := ev.(*tcell.EventResize); ok {
			w, hgt := resize.Size()
			h.dispatchResize(w, hgt)
			continue
		}
		select {
		case h.events <- ev:
		default:
			// Application not draining; drop rather than stall signals.
		}
	}
}

// dispatchResize fires resize observation, coarse resize, width crossings,
// and orientation flips for one size change.
func (h *Host) dispatchResize(w, hgt int) {
	h.mu.Lock()
	oldW, oldH := h.lastWidth, h.lastHeight
	h.lastWidth, h.lastHeight = w, hgt

	fns := h.snapshot(h.observers)
	fns = append(fns, h.snapshot(h.resize)...)
	for _, watch := range h.sortedWatches() {
		if (oldW >= watch.min) != (w >= watch.min) {
			fns = append(fns, watch.fn)
		}
	}
	if (oldW > oldH) != (w > hgt) {
		fns = append(fns, h.snapshot(h.orientation)...)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Metrics implements platform.Platform. Terminal cells have no pixel ratio,
// touch contacts, or safe-area margin; dark scheme is a best-effort read of
// the COLORFGBG convention.
func (h *Host) Metrics() platform.Metrics {
	w, hgt := h.screen.Size()
	return platform.Metrics{
		InnerWidth:  w,
		InnerHeight: hgt,
		PixelRatio:  1,
		AvailWidth:  w,
		AvailHeight: hgt,
		DarkScheme:  darkBackground(),
		Identity:    identity(),
	}
}

// Frames implements platform.Platform.
func (h *Host) Frames() sched.FrameSource { return h.frames }

// ObserveResize implements platform.Platform. tcell resize events are
// per-change, so they serve as the fine-grained observation path.
func (h *Host) ObserveResize(fn func()) (platform.CancelFunc, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
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

// OnVisualViewportResize implements platform.Platform. Terminals have no
// distinct visual viewport.
func (h *Host) OnVisualViewportResize(func()) (platform.CancelFunc, bool) {
	return nil, false
}

// OnScroll implements platform.Platform. Terminals have no document scroll;
// the registration is accepted but never fires.
func (h *Host) OnScroll(func()) platform.CancelFunc {
	return func() {}
}

// ScrollPosition implements platform.Platform.
func (h *Host) ScrollPosition() (int, int) { return 0, 0 }

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

// sortedWatches copies the width watches in registration order. Caller
// holds h.mu.
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

// identity builds the host self-description from terminal environment.
func identity() string {
	parts := make([]string, 0, 3)
	if prog := os.Getenv("TERM_PROGRAM"); prog != "" {
		parts = append(parts, prog)
	}
	if term := os.Getenv("TERM"); term != "" {
		parts = append(parts, term)
	}
	if mux := os.Getenv("TMUX"); mux != "" {
		parts = append(parts, "tmux")
	}
	if len(parts) == 0 {
		return "terminal"
	}
	return strings.Join(parts, " ")
}

// darkBackground is a best-effort read of the COLORFGBG convention
// ("fg;bg" with bg 0-6 or 8 meaning dark). Absence reports false.
func darkBackground() bool {
	v := os.Getenv("COLORFGBG")
	i := strings.LastIndexByte(v, ';')
	if i < 0 || i+1 >= len(v) {
		return false
	}
	switch v[i+1:] {
	case "0", "1", "2", "3", "4", "5", "6", "8":
		return true
	}
	return false
}

var _ platform.Platform = (*Host)(nil)
