package viewportsense

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
)

// varPrefix is the custom-property namespace.
const varPrefix = "--vs-"

// CSSVariables formats a state as custom-property pairs. Booleans render as
// "0"/"1" so they compose in calc() expressions.
func CSSVariables(s State) map[string]string {
	return map[string]string{
		varPrefix + "width":        px(s.Width),
		varPrefix + "height":       px(s.Height),
		varPrefix + "avail-width":  px(s.AvailableWidth),
		varPrefix + "avail-height": px(s.AvailableHeight),
		varPrefix + "breakpoint":   s.Breakpoint,
		varPrefix + "orientation":  string(s.Orientation),
		varPrefix + "pixel-ratio":  trimFloat(s.PixelRatio),
		varPrefix + "mobile":       bit(s.IsMobile),
		varPrefix + "tablet":       bit(s.IsTablet),
		varPrefix + "desktop":      bit(s.IsDesktop),
		varPrefix + "touch":        bit(s.IsTouch),
	}
}

// CSSVariablesBlock renders the variables as a :root block with a stable
// property order.
func CSSVariablesBlock(s State) string {
	vars := CSSVariables(s)
	order := []string{
		varPrefix + "width",
		varPrefix + "height",
		varPrefix + "avail-width",
		varPrefix + "avail-height",
		varPrefix + "breakpoint",
		varPrefix + "orientation",
		varPrefix + "pixel-ratio",
		varPrefix + "mobile",
		varPrefix + "tablet",
		varPrefix + "desktop",
		varPrefix + "touch",
	}

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range order {
		fmt.Fprintf(&b, "  %s: %s;\n", name, vars[name])
	}
	b.WriteString("}\n")
	return b.String()
}

// UtilityClasses returns the tier class names describing a state, e.g.
// ["vs-lg", "vs-desktop", "vs-landscape"].
func UtilityClasses(s State) []string {
	classes := []string{
		"vs-" + s.Breakpoint,
		"vs-" + deviceClass(s),
		"vs-" + string(s.Orientation),
	}
	if s.IsTouch {
		classes = append(classes, "vs-touch")
	}
	return classes
}

// deviceClass names the device split of a state.
func deviceClass(s State) string {
	switch {
	case s.IsMobile:
		return "mobile"
	case s.IsTablet:
		return "tablet"
	case s.IsDesktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// StateJSON serializes a state snapshot for export to other tooling.
func StateJSON(s State) ([]byte, error) {
	b := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		b, err = sjson.SetBytes(b, path, value)
	}

	set("width", s.Width)
	set("height", s.Height)
	set("breakpoint", s.Breakpoint)
	set("isMobile", s.IsMobile)
	set("isTablet", s.IsTablet)
	set("isDesktop", s.IsDesktop)
	set("isTouch", s.IsTouch)
	set("orientation", string(s.Orientation))
	set("pixelRatio", s.PixelRatio)
	set("availableWidth", s.AvailableWidth)
	set("availableHeight", s.AvailableHeight)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// px formats a pixel length.
func px(v int) string { return strconv.Itoa(v) + "px" }

// bit formats a boolean as "0"/"1".
func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// trimFloat formats a ratio without trailing zeros.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
