package viewportsense

// Orientation is the viewport aspect class.
type Orientation string

const (
	// Portrait means height >= width. Square viewports are portrait.
	Portrait Orientation = "portrait"

	// Landscape means width > height.
	Landscape Orientation = "landscape"
)

// State is the authoritative viewport snapshot. It is a value type, fully
// recomputed on every update and never partially mutated; callers may retain
// copies freely.
type State struct {
	// Width and Height are the viewport dimensions in device-independent
	// pixels.
	Width  int
	Height int

	// Breakpoint is the name of the largest configured tier whose
	// threshold is at or below Width.
	Breakpoint string

	// IsMobile, IsTablet, and IsDesktop split Width against the table's
	// md and lg thresholds. Exactly one is true for any computed state.
	IsMobile  bool
	IsTablet  bool
	IsDesktop bool

	// IsTouch is the touch capability snapshot. It can legitimately flip
	// at runtime, e.g. when a pointing device attaches.
	IsTouch bool

	// Orientation derives from Width versus Height.
	Orientation Orientation

	// PixelRatio is the device pixel ratio, 1 when high-DPI detection is
	// disabled or the host reports nothing useful.
	PixelRatio float64

	// AvailableWidth and AvailableHeight are the host-reported usable
	// screen area, falling back to Width and Height.
	AvailableWidth  int
	AvailableHeight int
}
