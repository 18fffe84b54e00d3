package breakpoint

import (
	"errors"
	"testing"
)

func TestTable_ClassifyDefaults(t *testing.T) {
	table, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}

	tests := []struct {
		width int
		want  string
	}{
		{0, XS},
		{320, XS},
		{639, XS},
		{640, SM},
		{767, SM},
		{768, MD},
		{1023, MD},
		{1024, LG},
		{1279, LG},
		{1280, XL},
		{1535, XL},
		{1536, XXL},
		{3840, XXL},
	}

	for _, tt := range tests {
		if got := table.Classify(tt.width); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestTable_ClassifyIdempotent(t *testing.T) {
	table, err := New(map[string]int{"wide": 2000})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, w := range []int{0, 100, 640, 767, 768, 1024, 1999, 2000, 9999} {
		first := table.Classify(w)
		second := table.Classify(w)
		if first != second {
			t.Errorf("Classify(%d) not stable: %q then %q", w, first, second)
		}
	}
}

func TestTable_ClassifyMonotonic(t *testing.T) {
	table, err := New(map[string]int{"huge": 1900, "tiny": 100})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	prev := -1
	for w := 0; w <= 2200; w += 7 {
		name := table.Classify(w)
		min, ok := table.Min(name)
		if !ok {
			t.Fatalf("Classify(%d) returned unknown name %q", w, name)
		}
		if min < prev {
			t.Fatalf("threshold decreased at width %d: %d after %d", w, min, prev)
		}
		prev = min
	}
}

func TestTable_CustomOverridesDefault(t *testing.T) {
	table, err := New(map[string]int{MD: 700})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := table.Classify(700); got != MD {
		t.Errorf("Classify(700) = %q, want %q", got, MD)
	}
	if got := table.Classify(699); got != SM {
		t.Errorf("Classify(699) = %q, want %q", got, SM)
	}
	if min, _ := table.Min(MD); min != 700 {
		t.Errorf("Min(md) = %d, want 700", min)
	}
}

func TestTable_TieBreakFavorsCustom(t *testing.T) {
	// "phablet" shares the md threshold; as the later-merged entry it must
	// win classification at exactly that width.
	table, err := New(map[string]int{"phablet": 768})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := table.Classify(768); got != "phablet" {
		t.Errorf("Classify(768) = %q, want phablet", got)
	}
	if got := table.Classify(1023); got != "phablet" {
		t.Errorf("Classify(1023) = %q, want phablet", got)
	}
	if got := table.Classify(1024); got != LG {
		t.Errorf("Classify(1024) = %q, want %q", got, LG)
	}
}

func TestMerge_FullyCustomTable(t *testing.T) {
	table, err := Merge(FromMap(map[string]int{"sm": 0, "lg": 900}), nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if got := table.Classify(899); got != "sm" {
		t.Errorf("Classify(899) = %q, want sm", got)
	}
	// Boundary is inclusive at the threshold.
	if got := table.Classify(900); got != "lg" {
		t.Errorf("Classify(900) = %q, want lg", got)
	}
}

func TestMerge_Validation(t *testing.T) {
	tests := []struct {
		name    string
		base    []Entry
		custom  map[string]int
		wantErr error
	}{
		{"negative threshold", Defaults(), map[string]int{"bad": -1}, ErrNegativeThreshold},
		{"no zero tier", FromMap(map[string]int{"lg": 900}), nil, ErrNoZeroTier},
		{"empty table", nil, nil, ErrEmptyTable},
		{"empty name", Defaults(), map[string]int{"": 500}, ErrEmptyName},
		{"tier raised past the next", Defaults(), map[string]int{"md": 2000}, ErrTierOrder},
		{"tier lowered past the previous", Defaults(), map[string]int{"xl": 700}, ErrTierOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Merge(tt.base, tt.custom)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Merge error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge_TierOrderKept(t *testing.T) {
	// Overrides that keep the default tiers in ascending order are fine,
	// including ties between adjacent tiers and non-default names anywhere.
	for _, custom := range []map[string]int{
		{"md": 700},
		{"md": 640}, // tied with sm
		{"huge": 4000},
		{"tiny": 100, "lg": 1100},
	} {
		if _, err := New(custom); err != nil {
			t.Errorf("New(%v) failed: %v", custom, err)
		}
	}

	// A raised tier breaks the split silently if accepted; it must not be.
	if _, err := New(map[string]int{"md": 2000}); !errors.Is(err, ErrTierOrder) {
		t.Errorf("New(md:2000) error = %v, want ErrTierOrder", err)
	}

	// Fully custom tables only constrain the default names they use.
	if _, err := Merge(FromMap(map[string]int{"sm": 0, "lg": 900}), nil); err != nil {
		t.Errorf("custom sm/lg table failed: %v", err)
	}
	if _, err := Merge(FromMap(map[string]int{"lg": 0, "sm": 900}), nil); !errors.Is(err, ErrTierOrder) {
		t.Errorf("inverted sm/lg table error = %v, want ErrTierOrder", err)
	}
}

func TestTable_MinUnknownName(t *testing.T) {
	table, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, ok := table.Min("nope"); ok {
		t.Error("Min returned ok for unknown name")
	}
}

func TestTable_Thresholds(t *testing.T) {
	table, err := New(map[string]int{"phablet": 768})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ths := table.Thresholds()
	want := []int{0, 640, 768, 1024, 1280, 1536}
	if len(ths) != len(want) {
		t.Fatalf("Thresholds() = %v, want %v", ths, want)
	}
	for i := range want {
		if ths[i] != want[i] {
			t.Fatalf("Thresholds() = %v, want %v", ths, want)
		}
	}
}

func TestTable_DeviceThresholds(t *testing.T) {
	table, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	md, lg := table.DeviceThresholds()
	if md != 768 || lg != 1024 {
		t.Errorf("DeviceThresholds() = %d, %d, want 768, 1024", md, lg)
	}

	custom, err := Merge(FromMap(map[string]int{"sm": 0, "lg": 900}), nil)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	md, lg = custom.DeviceThresholds()
	if md != 768 || lg != 900 {
		t.Errorf("custom DeviceThresholds() = %d, %d, want 768, 900", md, lg)
	}
}
