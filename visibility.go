package viewportsense

import (
	"github.com/nishadkindre/viewport-sense/internal/geom"
)

// Rect is an axis-aligned rectangle in document coordinates.
type Rect = geom.Rect

// ViewportRect returns the currently visible document region: the scroll
// offsets as origin and the viewport dimensions as size.
func (e *Engine) ViewportRect() Rect {
	s := e.GetState()

	e.mu.Lock()
	active := e.phase == phaseActive
	e.mu.Unlock()

	var x, y int
	if active {
		x, y = e.plat.ScrollPosition()
	}
	return Rect{
		X:      float64(x),
		Y:      float64(y),
		Width:  float64(s.Width),
		Height: float64(s.Height),
	}
}

// VisibleRatio returns the fraction of target currently inside the viewport,
// in [0, 1].
func (e *Engine) VisibleRatio(target Rect) float64 {
	return target.VisibleRatio(e.ViewportRect())
}

// WatchVisibility re-evaluates the target rectangle against the viewport on
// every resize and scroll, invoking fn whenever visibility crosses the
// threshold (fraction in [0, 1]). target is re-read each evaluation so
// moving elements can be tracked. fn fires once immediately with the initial
// visibility. The returned cancel is idempotent.
func (e *Engine) WatchVisibility(target func() Rect, threshold float64, fn func(visible bool, ratio float64)) func() {
	if target == nil || fn == nil {
		return func() {}
	}
	if threshold <= 0 {
		threshold = 1e-9 // any overlap counts
	}

	var wasVisible bool
	evaluate := func(first bool) {
		ratio := e.VisibleRatio(target())
		visible := ratio >= threshold
		if first || visible != wasVisible {
			wasVisible = visible
			fn(visible, ratio)
		}
	}
	evaluate(true)

	check := func() { evaluate(false) }
	offResize := e.On(EventResize, func(Event) { check() })

	e.mu.Lock()
	active := e.phase == phaseActive
	e.mu.Unlock()

	offScroll := func() {}
	if active {
		cancel := e.plat.OnScroll(check)
		offScroll = func() { cancel() }
	}

	return func() {
		offResize()
		offScroll()
	}
}
