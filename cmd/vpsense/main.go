// Package main is a terminal viewer for the viewport engine: it renders the
// live viewport state and the event stream for the terminal it runs in.
// Resize the terminal to watch breakpoint and orientation transitions.
package main

import (
	"flag"
	"fmt"
	"os"

	viewportsense "github.com/nishadkindre/viewport-sense"
	"github.com/nishadkindre/viewport-sense/internal/platform/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "Path to settings file (toml/yaml/json)")
	flag.StringVar(&configPath, "c", "", "Path to settings file (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("vpsense %s (%s)\n", version, commit)
		return 0
	}

	cfg := viewportsense.DefaultConfig()
	if configPath != "" {
		loaded, err := viewportsense.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	host, err := terminal.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open terminal: %v\n", err)
		return 1
	}
	defer host.Close()

	a, err := newApp(host, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.shutdown()

	if configPath != "" {
		w, err := viewportsense.WatchConfig(configPath, a.onConfigReload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: watch config: %v\n", err)
			return 1
		}
		defer w.Close()
	}

	a.loop()
	return 0
}
