// Package geom provides the rectangle math behind element-visibility
// tracking.
package geom

// Rect is an axis-aligned rectangle in document coordinates. Width and
// Height are expected to be non-negative.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns the rectangle's area, zero for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Area() == 0 }

// Intersect returns the overlap of two rectangles, or a zero Rect when they
// are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x1 := maxf(r.X, o.X)
	y1 := maxf(r.Y, o.Y)
	x2 := minf(r.Right(), o.Right())
	y2 := minf(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// VisibleRatio returns the fraction of r covered by the viewport rectangle,
// in [0, 1]. Degenerate target rectangles report 0.
func (r Rect) VisibleRatio(viewport Rect) float64 {
	area := r.Area()
	if area == 0 {
		return 0
	}
	return r.Intersect(viewport).Area() / area
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
