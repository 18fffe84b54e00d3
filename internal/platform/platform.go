// Package platform abstracts the host environment the viewport engine
// observes: raw viewport metrics plus the native signals that should trigger
// recomputation.
//
// Implementations never compute viewport state. They surface what the host
// reports and fire callbacks when the host changes; all derivation lives in
// the engine.
package platform

import "github.com/nishadkindre/viewport-sense/internal/sched"

// CancelFunc removes a signal registration. Calling it more than once is safe.
type CancelFunc func()

// Insets is the platform-reserved safe-area margin around the viewport.
type Insets struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// Zero reports whether no margin is reserved.
func (i Insets) Zero() bool {
	return i == Insets{}
}

// Metrics is a raw snapshot of host-reported viewport values. Readings are in
// device-independent pixels.
type Metrics struct {
	// InnerWidth and InnerHeight are the viewport dimensions.
	InnerWidth  int
	InnerHeight int

	// PixelRatio is the device pixel ratio. Hosts without high-DPI
	// reporting return 1.
	PixelRatio float64

	// AvailWidth and AvailHeight are the usable screen area. Zero means
	// the host does not report them.
	AvailWidth  int
	AvailHeight int

	// TouchPoints is the number of simultaneous touch contacts the host
	// supports. Zero means no touch capability.
	TouchPoints int

	// Insets is the safe-area margin.
	Insets Insets

	// ReducedMotion, DarkScheme, and HighContrast are the host's
	// accessibility preferences, most conservative value when unknown.
	ReducedMotion bool
	DarkScheme    bool
	HighContrast  bool

	// Identity is the host's self-description (user-agent equivalent).
	Identity string
}

// Platform is the host surface consumed by the engine and its collaborators.
type Platform interface {
	// Metrics reads the current raw values.
	Metrics() Metrics

	// ObserveResize registers a fine-grained resize observation callback.
	// ok is false when the host has no resize-observation facility, in
	// which case callers fall back to OnResize.
	ObserveResize(fn func()) (cancel CancelFunc, ok bool)

	// OnResize registers for coarse host resize events.
	OnResize(fn func()) CancelFunc

	// OnWidthCross registers fn to fire when the viewport width crosses
	// minWidth in either direction (a min-width media query equivalent).
	OnWidthCross(minWidth int, fn func()) CancelFunc

	// OnOrientationChange registers for orientation flip events.
	OnOrientationChange(fn func()) CancelFunc

	// OnVisualViewportResize registers for visual-viewport resizes
	// (on-screen keyboard show/hide and similar). ok is false when the
	// host has no distinct visual viewport.
	OnVisualViewportResize(fn func()) (cancel CancelFunc, ok bool)

	// OnScroll registers for scroll position changes.
	OnScroll(fn func()) CancelFunc

	// ScrollPosition reads the current scroll offsets.
	ScrollPosition() (x, y int)

	// Frames returns the host frame source used for frame batching.
	Frames() sched.FrameSource
}
