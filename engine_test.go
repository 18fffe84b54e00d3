package viewportsense

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/nishadkindre/viewport-sense/internal/platform"
	"github.com/nishadkindre/viewport-sense/internal/platform/sim"
)

// newTestEngine builds an engine over a simulated host with the manual
// clock wired in.
func newTestEngine(t *testing.T, host *sim.Host, mutate func(*Config)) *Engine {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Platform = host
	cfg.Logger = log.New(&bytes.Buffer{}, "", 0)
	cfg = cfg.WithClock(host.Clock())
	if mutate != nil {
		mutate(&cfg)
	}

	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(eng.Destroy)
	return eng
}

func TestEngine_InitialState(t *testing.T) {
	host := sim.New() // 1024x768
	eng := newTestEngine(t, host, nil)

	s := eng.GetState()
	if s.Width != 1024 || s.Height != 768 {
		t.Fatalf("size = %dx%d, want 1024x768", s.Width, s.Height)
	}
	if s.Breakpoint != "lg" {
		t.Errorf("Breakpoint = %q, want lg", s.Breakpoint)
	}
	if !s.IsDesktop || s.IsMobile || s.IsTablet {
		t.Errorf("device split = mobile=%v tablet=%v desktop=%v, want desktop only",
			s.IsMobile, s.IsTablet, s.IsDesktop)
	}
	if s.Orientation != Landscape {
		t.Errorf("Orientation = %q, want landscape", s.Orientation)
	}
	if s.PixelRatio != 1 {
		t.Errorf("PixelRatio = %v, want 1", s.PixelRatio)
	}
	if s.AvailableWidth != 1024 || s.AvailableHeight != 768 {
		t.Errorf("avail = %dx%d, want 1024x768", s.AvailableWidth, s.AvailableHeight)
	}
}

func TestEngine_DeviceClassExclusivity(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)

	for _, w := range []int{0, 100, 639, 640, 767, 768, 1023, 1024, 1536, 4000} {
		host.SetSize(w, 700)
		host.PumpFrame()
		s := eng.GetState()

		count := 0
		for _, b := range []bool{s.IsMobile, s.IsTablet, s.IsDesktop} {
			if b {
				count++
			}
		}
		if count != 1 {
			t.Errorf("width %d: mobile=%v tablet=%v desktop=%v, want exactly one",
				w, s.IsMobile, s.IsTablet, s.IsDesktop)
		}
	}
}

func TestEngine_SquareViewportIsPortrait(t *testing.T) {
	host := sim.New(tweakSize(768, 768))
	eng := newTestEngine(t, host, nil)

	if got := eng.GetState().Orientation; got != Portrait {
		t.Errorf("Orientation = %q for square viewport, want portrait", got)
	}
}

// tweakSize returns a sim option setting the initial dimensions.
func tweakSize(w, h int) sim.Option {
	return sim.WithMetrics(platform.Metrics{
		InnerWidth:  w,
		InnerHeight: h,
		PixelRatio:  1,
		AvailWidth:  w,
		AvailHeight: h,
		Identity:    "sim",
	})
}

func TestEngine_ResizeBurstCoalesces(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState() // prime the previous state at 1024x768

	var resizes []State
	var changes []BreakpointChangeEvent
	eng.On(EventResize, func(e Event) {
		resizes = append(resizes, e.(ResizeEvent).State)
	})
	eng.On(EventBreakpointChange, func(e Event) {
		changes = append(changes, e.(BreakpointChangeEvent))
	})

	// A burst of native signals inside one frame window.
	host.SetSize(800, 768)
	host.SetSize(600, 700)
	host.SetSize(480, 700)
	host.PumpFrame()

	if len(resizes) != 1 {
		t.Fatalf("resize fired %d times for a one-frame burst, want 1", len(resizes))
	}
	if resizes[0].Width != 480 {
		t.Errorf("settled width = %d, want 480", resizes[0].Width)
	}
	if len(changes) != 1 {
		t.Fatalf("breakpointchange fired %d times, want 1", len(changes))
	}
	if changes[0].New != "xs" || changes[0].Old != "lg" {
		t.Errorf("breakpointchange = %s<-%s, want xs<-lg", changes[0].New, changes[0].Old)
	}
}

func TestEngine_ResizeFiresEvenWhenUnchanged(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	resizes := 0
	changes := 0
	eng.On(EventResize, func(Event) { resizes++ })
	eng.On(EventBreakpointChange, func(Event) { changes++ })
	eng.On(EventOrientationChange, func(Event) { changes++ })
	eng.On(EventTouchChange, func(Event) { changes++ })

	// Same dimensions twice: resize is unconditional, change events are not.
	host.SetSize(1024, 768)
	host.PumpFrame()
	host.SetSize(1024, 768)
	host.PumpFrame()

	if resizes != 2 {
		t.Errorf("resize fired %d times, want 2", resizes)
	}
	if changes != 0 {
		t.Errorf("change events fired %d times for identical states, want 0", changes)
	}
}

func TestEngine_ResizeBeforeChangeEvents(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	var order []Kind
	record := func(e Event) { order = append(order, e.EventKind()) }
	eng.On(EventBreakpointChange, record)
	eng.On(EventOrientationChange, record)
	eng.On(EventResize, record)

	// Crosses breakpoints and flips orientation in one transition.
	host.SetSize(480, 700)
	host.PumpFrame()

	want := []Kind{EventResize, EventBreakpointChange, EventOrientationChange}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestEngine_CustomTableBoundary(t *testing.T) {
	host := sim.New(tweakSize(899, 700))
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.Breakpoints = map[string]int{"sm": 0, "lg": 900}
	})

	if got := eng.GetBreakpoint(); got != "sm" {
		t.Errorf("breakpoint at 899 = %q, want sm", got)
	}

	host.SetSize(900, 700)
	host.PumpFrame()
	if got := eng.GetBreakpoint(); got != "lg" {
		t.Errorf("breakpoint at 900 = %q, want lg (threshold inclusive)", got)
	}
}

func TestEngine_InvalidBreakpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomBreakpoints = map[string]int{"bad": -5}
	if _, err := New(cfg); err == nil {
		t.Error("New accepted a negative breakpoint threshold")
	}

	cfg = DefaultConfig()
	cfg.Breakpoints = map[string]int{"lg": 900} // no zero tier
	if _, err := New(cfg); err == nil {
		t.Error("New accepted a table without a zero tier")
	}

	cfg = DefaultConfig()
	cfg.CustomBreakpoints = map[string]int{"md": 2000} // raised past lg
	if _, err := New(cfg); err == nil {
		t.Error("New accepted a default tier raised past the next one")
	}
}

func TestEngine_NoHostDefaults(t *testing.T) {
	cfg := DefaultConfig() // Platform nil
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New without a host failed: %v", err)
	}

	s := eng.GetState()
	if s.Width != 0 || s.Height != 0 {
		t.Errorf("size = %dx%d, want 0x0", s.Width, s.Height)
	}
	if s.IsTouch {
		t.Error("IsTouch = true without a host")
	}
	if s.PixelRatio != 1 {
		t.Errorf("PixelRatio = %v, want 1", s.PixelRatio)
	}
	if s.Breakpoint != "xs" {
		t.Errorf("Breakpoint = %q, want xs", s.Breakpoint)
	}
	if s.IsMobile || s.IsTablet || s.IsDesktop {
		t.Error("device split claimed without a host")
	}

	// Subscriptions are accepted but inert.
	off := eng.On(EventResize, func(Event) { t.Error("handler fired without a host") })
	off()
	off()

	eng.Destroy()
	eng.Destroy()
	if got := eng.GetState(); got != s {
		t.Error("state changed across Destroy without a host")
	}
}

func TestEngine_TouchChange(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	var touches []bool
	eng.On(EventTouchChange, func(e Event) {
		touches = append(touches, e.(TouchChangeEvent).Touch)
	})

	host.SetTouchPoints(2)
	host.PumpFrame()
	if !eng.IsTouch() {
		t.Error("IsTouch = false after touch points appeared")
	}

	// Detaching flips it back; the capability snapshot may legitimately change.
	host.SetTouchPoints(0)
	host.PumpFrame()
	if eng.IsTouch() {
		t.Error("IsTouch = true after touch points vanished")
	}

	if len(touches) != 2 || touches[0] != true || touches[1] != false {
		t.Errorf("touchchange sequence = %v, want [true false]", touches)
	}
}

func TestEngine_TouchDetectionDisabled(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.EnableTouch = false
	})
	eng.GetState()

	fired := false
	eng.On(EventTouchChange, func(Event) { fired = true })

	host.SetTouchPoints(5)
	host.PumpFrame()

	if eng.IsTouch() {
		t.Error("IsTouch = true with touch detection disabled")
	}
	if fired {
		t.Error("touchchange fired with touch detection disabled")
	}
}

func TestEngine_HighDPIToggle(t *testing.T) {
	host := sim.New()
	host.SetPixelRatio(2.5)

	eng := newTestEngine(t, host, nil)
	if got := eng.GetState().PixelRatio; got != 2.5 {
		t.Errorf("PixelRatio = %v with high-DPI enabled, want 2.5", got)
	}
	eng.Destroy()

	flat := newTestEngine(t, host, func(cfg *Config) {
		cfg.EnableHighDPI = false
	})
	if got := flat.GetState().PixelRatio; got != 1 {
		t.Errorf("PixelRatio = %v with high-DPI disabled, want 1", got)
	}
}

func TestEngine_OrientationSettleDelay(t *testing.T) {
	host := sim.New() // landscape 1024x768
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	var flips []Orientation
	eng.On(EventOrientationChange, func(e Event) {
		flips = append(flips, e.(OrientationChangeEvent).Orientation)
	})

	host.Rotate() // now 768x1024

	// Reads settle before recomputation; nothing may fire yet.
	if len(flips) != 0 {
		t.Fatal("orientationchange fired before the settle delay")
	}
	host.Clock().Advance(99 * time.Millisecond)
	if len(flips) != 0 {
		t.Fatal("orientationchange fired inside the settle delay")
	}

	host.Clock().Advance(1 * time.Millisecond)
	if len(flips) != 1 || flips[0] != Portrait {
		t.Fatalf("flips = %v, want [portrait]", flips)
	}
	if got := eng.GetState().Orientation; got != Portrait {
		t.Errorf("Orientation = %q after rotation, want portrait", got)
	}
}

func TestEngine_DebounceFallbackPath(t *testing.T) {
	host := sim.New(sim.WithoutResizeObserver())
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.DebounceDelay = 50 * time.Millisecond
	})
	eng.GetState()

	resizes := 0
	eng.On(EventResize, func(Event) { resizes++ })

	// Burst on the coarse resize path; only the quiet window may deliver.
	// Width stays above every threshold it started above, so no width
	// watch fires either.
	host.SetSize(1030, 768)
	host.Clock().Advance(30 * time.Millisecond)
	host.SetSize(1040, 768)
	host.Clock().Advance(30 * time.Millisecond)
	host.SetSize(1050, 768)

	if resizes != 0 {
		t.Fatalf("resize fired %d times before the quiet window elapsed", resizes)
	}

	host.Clock().Advance(50 * time.Millisecond)
	if resizes != 1 {
		t.Errorf("resize fired %d times after the quiet window, want 1", resizes)
	}
	if got := eng.GetState().Width; got != 1050 {
		t.Errorf("settled width = %d, want 1050", got)
	}
}

func TestEngine_WidthCrossStillCatchesBreakpointChange(t *testing.T) {
	// Coarse-resize hosts can cross a threshold mid-burst; the per-threshold
	// watches schedule a frame recomputation that catches it even before
	// the debounce window closes.
	host := sim.New(sim.WithoutResizeObserver())
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.DebounceDelay = 10 * time.Second // effectively never
	})
	eng.GetState()

	changes := 0
	eng.On(EventBreakpointChange, func(Event) { changes++ })

	host.SetSize(700, 768) // crosses lg and md going down
	host.PumpFrame()

	if changes != 1 {
		t.Errorf("breakpointchange fired %d times via width watches, want 1", changes)
	}
	if got := eng.GetBreakpoint(); got != "sm" {
		t.Errorf("breakpoint = %q, want sm", got)
	}
}

func TestEngine_VisualViewportResize(t *testing.T) {
	host := sim.New(sim.WithVisualViewport())
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.DebounceDelay = 50 * time.Millisecond
	})
	eng.GetState()

	resizes := 0
	eng.On(EventResize, func(Event) { resizes++ })

	// Keyboard show: height shrinks without a window resize.
	host.FireVisualViewportResize(400)
	if resizes != 0 {
		t.Fatal("visual viewport resize delivered before the quiet window")
	}
	host.Clock().Advance(50 * time.Millisecond)

	if resizes != 1 {
		t.Errorf("resize fired %d times, want 1", resizes)
	}
	if got := eng.GetState().Height; got != 400 {
		t.Errorf("height = %d after keyboard show, want 400", got)
	}
}

func TestEngine_PostDestroySilence(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	fired := 0
	eng.On(EventResize, func(Event) { fired++ })

	// A signal in flight when Destroy runs must not recompute.
	host.SetSize(500, 500)
	eng.Destroy()
	host.PumpFrame()
	host.Clock().Advance(time.Minute)
	host.SetSize(300, 300)
	host.PumpFrame()

	if fired != 0 {
		t.Errorf("events fired %d times after Destroy", fired)
	}

	s := eng.GetState()
	if s.Width != 1024 {
		t.Errorf("frozen width = %d, want 1024", s.Width)
	}

	eng.Destroy() // idempotent
}

func TestEngine_UnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	a, b := 0, 0
	offA := eng.On(EventResize, func(Event) { a++ })
	eng.On(EventResize, func(Event) { b++ })

	offA()
	offA() // idempotent

	host.SetSize(500, 500)
	host.PumpFrame()

	if a != 0 {
		t.Errorf("unsubscribed handler fired %d times", a)
	}
	if b != 1 {
		t.Errorf("remaining handler fired %d times, want 1", b)
	}
}

func TestEngine_OffByFunctionIdentity(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	calls := 0
	handler := func(Event) { calls++ }
	eng.On(EventResize, handler)
	eng.Off(EventResize, handler)

	host.SetSize(500, 500)
	host.PumpFrame()

	if calls != 0 {
		t.Errorf("removed handler fired %d times", calls)
	}
}

func TestEngine_HandlerFaultIsolation(t *testing.T) {
	var buf bytes.Buffer
	host := sim.New()
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.Logger = log.New(&buf, "", 0)
	})
	eng.GetState()

	var seen []State
	eng.On(EventResize, func(Event) { panic("subscriber bug") })
	eng.On(EventResize, func(e Event) {
		seen = append(seen, e.(ResizeEvent).State)
	})

	host.SetSize(500, 500) // must not panic through the emitter
	host.PumpFrame()

	if len(seen) != 1 || seen[0].Width != 500 {
		t.Fatalf("second handler saw %v, want one state at width 500", seen)
	}
	if !strings.Contains(buf.String(), "handler fault") {
		t.Errorf("fault not reported, log: %q", buf.String())
	}
}

func TestEngine_Queries(t *testing.T) {
	var buf bytes.Buffer
	host := sim.New() // width 1024
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.Logger = log.New(&buf, "", 0)
	})

	if !eng.Above("md") {
		t.Error("Above(md) = false at width 1024")
	}
	if eng.Above("xl") {
		t.Error("Above(xl) = true at width 1024")
	}
	if !eng.Below("xl") {
		t.Error("Below(xl) = false at width 1024")
	}
	if eng.Below("md") {
		t.Error("Below(md) = true at width 1024")
	}
	if !eng.Between("lg", "xl") {
		t.Error("Between(lg, xl) = false at width 1024")
	}
	if eng.Between("xs", "sm") {
		t.Error("Between(xs, sm) = true at width 1024")
	}

	// Unknown names are benign false with a diagnostic, not an error.
	if eng.Above("huge") {
		t.Error("Above(huge) = true for unknown name")
	}
	if !strings.Contains(buf.String(), "unknown breakpoint") {
		t.Errorf("unknown-name query not logged: %q", buf.String())
	}
}

func TestEngine_Breakpoints(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, func(cfg *Config) {
		cfg.CustomBreakpoints = map[string]int{"ultrawide": 2200}
	})

	names := eng.Breakpoints()
	if len(names) != 7 {
		t.Fatalf("Breakpoints() = %v, want 7 tiers", names)
	}
	if names[len(names)-1] != "ultrawide" {
		t.Errorf("largest tier = %q, want ultrawide", names[len(names)-1])
	}
}

func TestEngine_SafeAreaWatch(t *testing.T) {
	host := sim.New()
	eng := newTestEngine(t, host, nil)
	eng.GetState()

	var got []Insets
	cancel := eng.WatchSafeArea(func(in Insets) { got = append(got, in) })

	host.SetInsets(Insets{Top: 44, Bottom: 34})
	host.PumpFrame()

	if len(got) != 2 {
		t.Fatalf("watch fired %d times, want 2 (initial + change)", len(got))
	}
	if !got[0].Zero() {
		t.Errorf("initial insets = %+v, want zero", got[0])
	}
	if got[1].Top != 44 || got[1].Bottom != 34 {
		t.Errorf("changed insets = %+v, want top 44 bottom 34", got[1])
	}

	cancel()
	host.SetInsets(Insets{})
	host.PumpFrame()
	if len(got) != 2 {
		t.Errorf("watch fired after cancel")
	}
}

func TestEngine_Preferences(t *testing.T) {
	host := sim.New()
	host.SetMediaFeatures(true, true, false)
	eng := newTestEngine(t, host, nil)

	p := eng.Preferences()
	if !p.ReducedMotion || !p.DarkScheme || p.HighContrast {
		t.Errorf("Preferences = %+v, want reduced motion and dark scheme", p)
	}

	inert, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := inert.Preferences(); got != (Preferences{}) {
		t.Errorf("hostless Preferences = %+v, want zero", got)
	}
}
