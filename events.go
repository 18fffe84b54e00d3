package viewportsense

import "github.com/nishadkindre/viewport-sense/internal/event"

// Kind identifies an engine event stream.
type Kind = event.Kind

// Event kinds emitted by the engine. Within one recomputation cycle,
// EventResize always precedes the change events.
const (
	// EventResize fires on every recomputation, carrying the new state,
	// whether or not any field changed.
	EventResize Kind = "resize"

	// EventBreakpointChange fires when the breakpoint name changed.
	EventBreakpointChange Kind = "breakpointchange"

	// EventOrientationChange fires when the orientation flipped.
	EventOrientationChange Kind = "orientationchange"

	// EventTouchChange fires when the touch capability flipped.
	EventTouchChange Kind = "touchchange"
)

// Event is the tagged payload interface delivered to handlers.
type Event = event.Event

// Handler receives events of the kind it subscribed to. Handlers run
// synchronously during emission; a panicking handler is isolated and
// reported without disturbing other handlers.
type Handler = event.Handler

// Stats contains notification bus counters.
type Stats = event.Stats

// ResizeEvent is the payload for EventResize.
type ResizeEvent struct {
	State State
}

// EventKind implements Event.
func (ResizeEvent) EventKind() Kind { return EventResize }

// BreakpointChangeEvent is the payload for EventBreakpointChange.
type BreakpointChangeEvent struct {
	New string
	Old string
}

// EventKind implements Event.
func (BreakpointChangeEvent) EventKind() Kind { return EventBreakpointChange }

// OrientationChangeEvent is the payload for EventOrientationChange.
type OrientationChangeEvent struct {
	Orientation Orientation
}

// EventKind implements Event.
func (OrientationChangeEvent) EventKind() Kind { return EventOrientationChange }

// TouchChangeEvent is the payload for EventTouchChange.
type TouchChangeEvent struct {
	Touch bool
}

// EventKind implements Event.
func (TouchChangeEvent) EventKind() Kind { return EventTouchChange }
