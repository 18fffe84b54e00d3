package viewportsense

import (
	"github.com/nishadkindre/viewport-sense/internal/device"
)

// DeviceInfo is a best-effort classification of the host environment. Every
// field is a heuristic over strings the host chooses to expose; treat them
// as labels, not authoritative capability detection.
type DeviceInfo = device.Info

// DetectDevice classifies the current process environment.
func DetectDevice() DeviceInfo {
	return device.Detect()
}

// Preferences are the host's accessibility preferences. Each is a stateless
// boolean read; unknown preferences report their most conservative value.
type Preferences struct {
	ReducedMotion bool
	DarkScheme    bool
	HighContrast  bool
}

// Preferences reads the host's current accessibility preferences. Without a
// host all preferences report false.
func (e *Engine) Preferences() Preferences {
	e.mu.Lock()
	active := e.phase == phaseActive
	e.mu.Unlock()
	if !active {
		return Preferences{}
	}
	m := e.plat.Metrics()
	return Preferences{
		ReducedMotion: m.ReducedMotion,
		DarkScheme:    m.DarkScheme,
		HighContrast:  m.HighContrast,
	}
}

// SafeAreaInsets reads the host-reserved margin around the viewport. Without
// a host the margin is zero.
func (e *Engine) SafeAreaInsets() Insets {
	e.mu.Lock()
	active := e.phase == phaseActive
	e.mu.Unlock()
	if !active {
		return Insets{}
	}
	return e.plat.Metrics().Insets
}

// WatchSafeArea invokes fn with the new insets whenever a resize changes
// them, and once immediately with the current value. The returned cancel is
// idempotent.
func (e *Engine) WatchSafeArea(fn func(Insets)) func() {
	last := e.SafeAreaInsets()
	fn(last)

	return e.On(EventResize, func(Event) {
		in := e.SafeAreaInsets()
		if in != last {
			last = in
			fn(in)
		}
	})
}
