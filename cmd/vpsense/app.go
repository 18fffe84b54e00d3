package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	viewportsense "github.com/nishadkindre/viewport-sense"
	"github.com/nishadkindre/viewport-sense/internal/platform/terminal"
)

// logLines bounds the event log panel.
const logLines = 12

// app owns the screen, the engine, and the event log. Engine callbacks run
// on host goroutines; they only append to the log and poke the redraw
// channel, so all drawing happens on the loop goroutine.
type app struct {
	host   *terminal.Host
	redraw chan struct{}

	mu     sync.Mutex
	engine *viewportsense.Engine
	log    []string
	err    string
}

func newApp(host *terminal.Host, cfg viewportsense.Config) (*app, error) {
	a := &app{
		host:   host,
		redraw: make(chan struct{}, 1),
	}
	if err := a.apply(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// apply replaces the engine with one built from cfg and resubscribes.
func (a *app) apply(cfg viewportsense.Config) error {
	cfg.Platform = a.host

	eng, err := viewportsense.New(cfg)
	if err != nil {
		return err
	}

	a.mu.Lock()
	old := a.engine
	a.engine = eng
	a.mu.Unlock()
	if old != nil {
		old.Destroy()
	}

	eng.On(viewportsense.EventResize, func(e viewportsense.Event) {
		s := e.(viewportsense.ResizeEvent).State
		a.logf("resize %dx%d", s.Width, s.Height)
	})
	eng.On(viewportsense.EventBreakpointChange, func(e viewportsense.Event) {
		c := e.(viewportsense.BreakpointChangeEvent)
		a.logf("breakpointchange %s -> %s", c.Old, c.New)
	})
	eng.On(viewportsense.EventOrientationChange, func(e viewportsense.Event) {
		c := e.(viewportsense.OrientationChangeEvent)
		a.logf("orientationchange %s", c.Orientation)
	})
	eng.On(viewportsense.EventTouchChange, func(e viewportsense.Event) {
		c := e.(viewportsense.TouchChangeEvent)
		a.logf("touchchange %v", c.Touch)
	})
	return nil
}

// onConfigReload applies a freshly loaded configuration, or surfaces the
// load error while keeping the running engine.
func (a *app) onConfigReload(cfg viewportsense.Config, err error) {
	if err != nil {
		a.mu.Lock()
		a.err = fmt.Sprintf("config reload: %v", err)
		a.mu.Unlock()
		a.poke()
		return
	}
	if applyErr := a.apply(cfg); applyErr != nil {
		a.mu.Lock()
		a.err = fmt.Sprintf("config reload: %v", applyErr)
		a.mu.Unlock()
		a.poke()
		return
	}
	a.mu.Lock()
	a.err = ""
	a.mu.Unlock()
	a.logf("config reloaded")
}

// logf appends one timestamped entry and requests a redraw.
func (a *app) logf(format string, args ...any) {
	line := time.Now().Format("15:04:05") + "  " + fmt.Sprintf(format, args...)
	a.mu.Lock()
	a.log = append(a.log, line)
	if len(a.log) > logLines {
		a.log = a.log[len(a.log)-logLines:]
	}
	a.mu.Unlock()
	a.poke()
}

// poke requests a redraw without blocking the caller.
func (a *app) poke() {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

// loop draws until a quit key arrives.
func (a *app) loop() {
	a.draw()
	for {
		select {
		case ev, ok := <-a.host.Events():
			if !ok {
				return
			}
			if key, ok := ev.(*tcell.EventKey); ok && isQuit(key) {
				return
			}
		case <-a.redraw:
			a.draw()
		}
	}
}

// isQuit reports whether key ends the program.
func isQuit(key *tcell.EventKey) bool {
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return key.Rune() == 'q' || key.Rune() == 'Q'
	}
	return false
}

func (a *app) shutdown() {
	a.mu.Lock()
	eng := a.engine
	a.mu.Unlock()
	if eng != nil {
		eng.Destroy()
	}
}

// draw renders the state panel and the event log.
func (a *app) draw() {
	a.mu.Lock()
	eng := a.engine
	lines := append([]string(nil), a.log...)
	errLine := a.err
	a.mu.Unlock()

	s := eng.GetState()
	names := eng.Breakpoints()
	screen := a.host.Screen()
	screen.Clear()

	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	value := tcell.StyleDefault
	accent := tcell.StyleDefault.Foreground(tierColor(names, s.Breakpoint)).Bold(true)

	drawText(screen, 2, 1, tcell.StyleDefault.Bold(true), "viewport-sense")
	drawText(screen, 2, 2, label, strings.Repeat("-", 40))

	row := 3
	put := func(name, val string, style tcell.Style) {
		drawText(screen, 2, row, label, fmt.Sprintf("%-14s", name))
		drawText(screen, 16, row, style, val)
		row++
	}
	put("size", fmt.Sprintf("%d x %d", s.Width, s.Height), value)
	put("breakpoint", s.Breakpoint, accent)
	put("device", deviceName(s), value)
	put("orientation", string(s.Orientation), value)
	put("touch", fmt.Sprintf("%v", s.IsTouch), value)
	put("pixel ratio", fmt.Sprintf("%g", s.PixelRatio), value)
	put("classes", strings.Join(viewportsense.UtilityClasses(s), " "), value)

	// Tier ribbon: every configured breakpoint in its own color, the
	// active one marked.
	row++
	col := 2
	for _, name := range names {
		style := tcell.StyleDefault.Foreground(tierColor(names, name))
		text := name
		if name == s.Breakpoint {
			style = style.Bold(true).Underline(true)
			text = "[" + name + "]"
		}
		drawText(screen, col, row, style, text)
		col += len(text) + 2
	}
	row += 2

	drawText(screen, 2, row, label, "events")
	row++
	for _, line := range lines {
		drawText(screen, 2, row, value, line)
		row++
	}
	if errLine != "" {
		drawText(screen, 2, row+1, tcell.StyleDefault.Foreground(tcell.ColorRed), errLine)
	}

	_, h := screen.Size()
	drawText(screen, 2, h-1, label, "q to quit")
	screen.Show()
}

// deviceName names the device split of a state.
func deviceName(s viewportsense.State) string {
	switch {
	case s.IsMobile:
		return "mobile"
	case s.IsTablet:
		return "tablet"
	default:
		return "desktop"
	}
}

// tierColor assigns each breakpoint a hue along a cold-to-warm sweep, so
// neighboring tiers stay distinguishable at a glance.
func tierColor(names []string, name string) tcell.Color {
	idx := 0
	for i, n := range names {
		if n == name {
			idx = i
			break
		}
	}
	span := len(names)
	if span < 2 {
		span = 2
	}
	hue := 210 - 180*float64(idx)/float64(span-1)
	c := colorful.Hsv(hue, 0.65, 0.95)
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// drawText writes a string at cell coordinates.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
