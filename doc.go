// Package viewportsense senses the host viewport: dimensions, breakpoint
// tier, device class, orientation, touch capability, pixel ratio,
// accessibility preferences, safe-area insets, scroll movement, and element
// visibility.
//
// The center of the package is the Engine. It samples raw host signals
// through a pluggable Platform, coalesces signal bursts with frame batching
// and debouncing, derives one authoritative State per cycle, and emits
// change notifications:
//
//	eng, err := viewportsense.New(viewportsense.Config{
//		Platform:      host,
//		DebounceDelay: 100 * time.Millisecond,
//		EnableTouch:   true,
//		EnableHighDPI: true,
//	})
//	if err != nil {
//		return err
//	}
//	defer eng.Destroy()
//
//	off := eng.On(viewportsense.EventBreakpointChange, func(e viewportsense.Event) {
//		chg := e.(viewportsense.BreakpointChangeEvent)
//		relayout(chg.New, chg.Old)
//	})
//	defer off()
//
// A process-wide shared engine is available through the package-level
// functions (GetState, IsMobile, On, ...); Configure sets its configuration
// before first use and Reset tears it down for test isolation.
//
// Nothing here panics across the API boundary during normal operation:
// absent hosts degrade to a static default state, missing host facilities
// fall back to coarser signal paths, faulting subscribers are isolated and
// logged, and unknown breakpoint names in queries warn and report false.
package viewportsense
