package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/nishadkindre/viewport-sense/internal/breakpoint"
)

// Settings is the file-configurable subset of the engine configuration.
type Settings struct {
	// Breakpoints replaces the default breakpoint table when non-empty.
	Breakpoints map[string]int `toml:"breakpoints" yaml:"breakpoints" json:"breakpoints"`

	// CustomBreakpoints overlays extra tiers on the base table.
	CustomBreakpoints map[string]int `toml:"custom_breakpoints" yaml:"custom_breakpoints" json:"custom_breakpoints"`

	// DebounceMS is the coarse-resize quiet window in milliseconds.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`

	// EnableTouch controls touch capability detection.
	EnableTouch bool `toml:"enable_touch" yaml:"enable_touch" json:"enable_touch"`

	// EnableHighDPI controls pixel ratio reporting above 1.
	EnableHighDPI bool `toml:"enable_high_dpi" yaml:"enable_high_dpi" json:"enable_high_dpi"`
}

// Default returns the settings matching the engine defaults.
func Default() Settings {
	return Settings{
		DebounceMS:    100,
		EnableTouch:   true,
		EnableHighDPI: true,
	}
}

// DebounceDelay returns the quiet window as a duration.
func (s Settings) DebounceDelay() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Validate checks that the settings describe a usable engine configuration.
func (s Settings) Validate() error {
	if s.DebounceMS < 0 {
		return ErrNegativeDebounce
	}

	base := breakpoint.Defaults()
	if len(s.Breakpoints) > 0 {
		base = breakpoint.FromMap(s.Breakpoints)
	}
	if _, err := breakpoint.Merge(base, s.CustomBreakpoints); err != nil {
		return err
	}
	return nil
}

// Load reads and validates the settings file at path, decoding over the
// defaults. The format follows the file extension: .toml, .yaml/.yml, or
// .json.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes and validates settings from data in the format named by ext.
func Parse(data []byte, ext string) (Settings, error) {
	s := Default()

	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("config: %w", err)
		}
	case ".json":
		if err := parseJSON(data, &s); err != nil {
			return Settings{}, err
		}
	default:
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// parseJSON decodes the known keys from data over s. Unknown keys are
// ignored, matching the other formats.
func parseJSON(data []byte, s *Settings) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}

	if r := gjson.GetBytes(data, "breakpoints"); r.Exists() {
		s.Breakpoints = intMap(r)
	}
	if r := gjson.GetBytes(data, "custom_breakpoints"); r.Exists() {
		s.CustomBreakpoints = intMap(r)
	}
	if r := gjson.GetBytes(data, "debounce_ms"); r.Exists() {
		s.DebounceMS = int(r.Int())
	}
	if r := gjson.GetBytes(data, "enable_touch"); r.Exists() {
		s.EnableTouch = r.Bool()
	}
	if r := gjson.GetBytes(data, "enable_high_dpi"); r.Exists() {
		s.EnableHighDPI = r.Bool()
	}
	return nil
}

// intMap converts a JSON object of numbers to a name -> threshold map.
func intMap(r gjson.Result) map[string]int {
	out := make(map[string]int)
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = int(value.Int())
		return true
	})
	return out
}
