// Package device classifies the host environment from its self-description
// and process environment.
//
// Everything here is a best-effort heuristic over strings the host chooses
// to expose. Results are labels for presentation and coarse branching, never
// authoritative capability detection.
package device

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// Info is a best-effort classification of the host.
type Info struct {
	// Program is the terminal program name, when the host names one.
	Program string

	// Term is the raw TERM value.
	Term string

	// Multiplexed reports a tmux or GNU screen session.
	Multiplexed bool

	// Remote reports an SSH session.
	Remote bool

	// CI reports a continuous-integration environment.
	CI bool

	// Interactive reports whether stdout is attached to a terminal.
	Interactive bool
}

// Detect classifies the current process environment.
func Detect() Info {
	info := FromEnviron(os.Getenv)
	info.Interactive = term.IsTerminal(int(os.Stdout.Fd()))
	return info
}

// FromEnviron classifies using the given environment lookup. Interactive is
// left false; only Detect can answer it for the real process.
func FromEnviron(getenv func(string) string) Info {
	info := Info{
		Term: getenv("TERM"),
	}

	info.Program = programName(getenv)
	info.Multiplexed = getenv("TMUX") != "" ||
		getenv("STY") != "" ||
		strings.HasPrefix(info.Term, "screen") ||
		strings.HasPrefix(info.Term, "tmux")
	info.Remote = getenv("SSH_CONNECTION") != "" ||
		getenv("SSH_TTY") != "" ||
		getenv("SSH_CLIENT") != ""
	info.CI = getenv("CI") != ""

	return info
}

// programName guesses the terminal program. TERM_PROGRAM is the closest
// thing to a standard; otherwise a handful of well-known TERM prefixes.
func programName(getenv func(string) string) string {
	if prog := getenv("TERM_PROGRAM"); prog != "" {
		return prog
	}
	term := getenv("TERM")
	for _, known := range []string{"alacritty", "kitty", "wezterm", "foot", "rxvt", "xterm"} {
		if strings.HasPrefix(term, known) {
			return known
		}
	}
	return ""
}
