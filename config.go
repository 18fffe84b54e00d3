package viewportsense

import (
	"log"
	"time"

	"github.com/nishadkindre/viewport-sense/internal/config"
	"github.com/nishadkindre/viewport-sense/internal/platform"
	"github.com/nishadkindre/viewport-sense/internal/sched"
)

// Platform is the host surface the engine observes. Implementations supply
// raw metrics and fire signal callbacks; they never compute viewport state.
// A package for terminal hosts ships with the module; other hosts implement
// the interface directly.
type Platform = platform.Platform

// Insets is the platform-reserved safe-area margin.
type Insets = platform.Insets

// Config controls one engine instance. It is read at construction and
// immutable for the engine's lifetime.
type Config struct {
	// Breakpoints replaces the default tier set entirely when non-nil.
	Breakpoints map[string]int

	// CustomBreakpoints overlays the base set by name. Custom thresholds
	// replace same-named entries and win ties against untouched entries.
	CustomBreakpoints map[string]int

	// DebounceDelay is the quiet window for the coarse resize and
	// visual-viewport signal paths. Negative values are treated as zero.
	DebounceDelay time.Duration

	// EnableTouch enables touch capability detection. When false, IsTouch
	// is always false.
	EnableTouch bool

	// EnableHighDPI enables device pixel ratio detection. When false,
	// PixelRatio is always 1.
	EnableHighDPI bool

	// Platform is the host to observe. Nil means no host is present: the
	// engine stays uninitialized and serves a static default state.
	Platform Platform

	// Logger receives diagnostics (handler faults, unknown-name queries).
	// Nil uses a stderr logger.
	Logger *log.Logger

	// clock substitutes the timer source in tests.
	clock sched.Clock
}

// DefaultConfig returns the configuration used by the convenience API:
// default tiers, 100ms debounce, touch and high-DPI detection enabled.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
		EnableTouch:   true,
		EnableHighDPI: true,
	}
}

// WithClock returns a copy of the configuration using clock for all timers.
// Tests pair this with a manual clock to drive debounce windows explicitly.
func (c Config) WithClock(clock Clock) Config {
	c.clock = clock
	return c
}

// Clock is the timer source used by the engine's debounce and settle logic.
type Clock = sched.Clock

// LoadConfig reads a settings file (TOML, YAML, or JSON by extension) and
// maps it onto a Config. File settings cover breakpoints, debounce, and the
// feature toggles; the host platform and logger stay programmatic.
func LoadConfig(path string) (Config, error) {
	s, err := config.Load(path)
	if err != nil {
		return Config{}, err
	}
	return configFromSettings(s), nil
}

// configFromSettings maps validated file settings onto engine configuration.
func configFromSettings(s config.Settings) Config {
	cfg := DefaultConfig()
	if len(s.Breakpoints) > 0 {
		cfg.Breakpoints = s.Breakpoints
	}
	cfg.CustomBreakpoints = s.CustomBreakpoints
	cfg.DebounceDelay = s.DebounceDelay()
	cfg.EnableTouch = s.EnableTouch
	cfg.EnableHighDPI = s.EnableHighDPI
	return cfg
}

// WatchConfig watches a settings file for changes, invoking onReload with
// the mapped configuration after each debounced change, or with a non-nil
// error when the file becomes unreadable or invalid. Close the returned
// watcher to stop.
func WatchConfig(path string, onReload func(Config, error)) (*ConfigWatcher, error) {
	return config.Watch(path, func(s config.Settings, err error) {
		if err != nil {
			onReload(Config{}, err)
			return
		}
		onReload(configFromSettings(s), nil)
	})
}

// ConfigWatcher reloads a settings file when it changes on disk.
type ConfigWatcher = config.Watcher
