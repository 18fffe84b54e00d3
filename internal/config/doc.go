// Package config loads viewport settings from TOML, YAML, or JSON files and
// watches them for live reload.
//
// Settings decode over the defaults, so a file only needs the keys it wants
// to change. Validation runs at load time; a file that parses but describes
// an unusable breakpoint set is rejected with the underlying breakpoint
// error.
package config
