// Package breakpoint implements the named width-threshold table used to
// classify a viewport width into a discrete tier.
//
// The effective table is the default tier set with user entries overlaid by
// name. Classification returns the entry with the greatest threshold at or
// below the width; entries sharing a threshold resolve in favor of the one
// merged later, so user overrides always win.
package breakpoint

import (
	"errors"
	"fmt"
	"sort"
)

// Default tier names, smallest to largest.
const (
	XS  = "xs"
	SM  = "sm"
	MD  = "md"
	LG  = "lg"
	XL  = "xl"
	XXL = "2xl"
)

// Sentinel errors for table validation.
var (
	// ErrNegativeThreshold is returned when an entry has a negative minimum width.
	ErrNegativeThreshold = errors.New("breakpoint threshold is negative")

	// ErrNoZeroTier is returned when no entry covers width zero.
	ErrNoZeroTier = errors.New("breakpoint table has no zero-threshold tier")

	// ErrEmptyTable is returned when the merged table has no entries.
	ErrEmptyTable = errors.New("breakpoint table is empty")

	// ErrEmptyName is returned when an entry has an empty name.
	ErrEmptyName = errors.New("breakpoint name is empty")

	// ErrTierOrder is returned when the named default tiers enumerate out
	// of ascending threshold order after the custom overlay.
	ErrTierOrder = errors.New("breakpoint tier thresholds out of order")
)

// Entry is a single named threshold.
type Entry struct {
	// Name is the tier name, e.g. "md".
	Name string

	// Min is the minimum width (inclusive) for this tier.
	Min int
}

// defaultOrder fixes the enumeration order of the default tiers.
var defaultOrder = []Entry{
	{XS, 0},
	{SM, 640},
	{MD, 768},
	{LG, 1024},
	{XL, 1280},
	{XXL, 1536},
}

// Defaults returns a copy of the default tier set.
func Defaults() []Entry {
	out := make([]Entry, len(defaultOrder))
	copy(out, defaultOrder)
	return out
}

// FromMap converts a name→threshold map into entries ordered by threshold
// (name as tie-break) so map-shaped configuration enumerates deterministically.
func FromMap(m map[string]int) []Entry {
	out := make([]Entry, 0, len(m))
	for name, min := range m {
		out = append(out, Entry{Name: name, Min: min})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Min != out[j].Min {
			return out[i].Min < out[j].Min
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Table is an immutable merged breakpoint table.
type Table struct {
	// entries sorted ascending by Min; among equal thresholds the
	// later-merged entry sorts last and therefore wins classification.
	entries []Entry
}

// New merges custom entries over the default tier set and validates the
// result. Custom thresholds replace defaults of the same name; custom-only
// names are added.
func New(custom map[string]int) (*Table, error) {
	return Merge(Defaults(), custom)
}

// Merge builds a table from an explicit base tier set plus custom overrides.
// A nil base means no defaults at all (fully custom tables).
func Merge(base []Entry, custom map[string]int) (*Table, error) {
	merged := make([]Entry, 0, len(base)+len(custom))
	index := make(map[string]int, len(base))

	for _, e := range base {
		index[e.Name] = len(merged)
		merged = append(merged, e)
	}

	// Overlay custom entries in a stable order.
	names := make([]string, 0, len(custom))
	for name := range custom {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		min := custom[name]
		if i, ok := index[name]; ok {
			// Replace in place but move to the tail so the override
			// wins threshold ties against untouched defaults.
			merged = append(merged[:i], merged[i+1:]...)
			for n, j := range index {
				if j > i {
					index[n] = j - 1
				}
			}
		}
		index[name] = len(merged)
		merged = append(merged, Entry{Name: name, Min: min})
	}

	t := &Table{entries: merged}
	if err := t.validate(); err != nil {
		return nil, err
	}

	// Stable sort keeps merge order among equal thresholds, so the scan in
	// Classify resolves ties toward the later-merged entry.
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Min < t.entries[j].Min
	})

	return t, nil
}

// validate flags malformed tier sets. These indicate a caller bug and are
// surfaced at construction rather than silently corrected.
func (t *Table) validate() error {
	if len(t.entries) == 0 {
		return ErrEmptyTable
	}
	hasZero := false
	for _, e := range t.entries {
		if e.Name == "" {
			return ErrEmptyName
		}
		if e.Min < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeThreshold, e.Name, e.Min)
		}
		if e.Min == 0 {
			hasZero = true
		}
	}
	if !hasZero {
		return ErrNoZeroTier
	}

	// The default tiers carry a fixed smallest-to-largest order. An
	// override that pushes one above a later tier (md:2000 over the
	// default lg) is a caller bug; re-sorting it would silently change
	// which names the device split and classification mean.
	var prev Entry
	hasPrev := false
	for _, d := range defaultOrder {
		min, ok := t.Min(d.Name)
		if !ok {
			continue
		}
		if hasPrev && min < prev.Min {
			return fmt.Errorf("%w: %s=%d below %s=%d", ErrTierOrder, d.Name, min, prev.Name, prev.Min)
		}
		prev = Entry{Name: d.Name, Min: min}
		hasPrev = true
	}
	return nil
}

// Classify returns the name of the entry with the greatest threshold at or
// below width. Widths below every threshold fall back to the smallest tier.
func (t *Table) Classify(width int) string {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Min <= width {
			return t.entries[i].Name
		}
	}
	return t.entries[0].Name
}

// Min returns the threshold for a tier name.
func (t *Table) Min(name string) (int, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Name == name {
			return t.entries[i].Min, true
		}
	}
	return 0, false
}

// Names returns tier names in ascending threshold order.
func (t *Table) Names() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Name
	}
	return out
}

// Entries returns a copy of the merged entries in ascending threshold order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Thresholds returns the distinct thresholds in ascending order. The engine
// registers one width-crossing watch per threshold.
func (t *Table) Thresholds() []int {
	out := make([]int, 0, len(t.entries))
	seen := make(map[int]bool, len(t.entries))
	for _, e := range t.entries {
		if !seen[e.Min] {
			seen[e.Min] = true
			out = append(out, e.Min)
		}
	}
	return out
}

// DeviceThresholds returns the md and lg thresholds used to derive the
// mobile/tablet/desktop split. Tables without an md or lg tier fall back to
// the default values so the split stays meaningful for fully custom tables.
func (t *Table) DeviceThresholds() (md, lg int) {
	md, lg = 768, 1024
	if v, ok := t.Min(MD); ok {
		md = v
	}
	if v, ok := t.Min(LG); ok {
		lg = v
	}
	if lg < md {
		lg = md
	}
	return md, lg
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
