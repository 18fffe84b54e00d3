package event

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind identifies an event stream on the bus.
type Kind string

// Event is a tagged payload delivered to handlers of its kind.
type Event interface {
	// EventKind returns the kind this payload belongs to.
	EventKind() Kind
}

// Handler receives events of the kind it subscribed to.
type Handler func(Event)

// Reporter receives handler faults. It must not panic.
type Reporter func(error)

// Stats contains bus counters.
type Stats struct {
	// EventsEmitted is the total number of Emit calls that found subscribers.
	EventsEmitted uint64

	// HandlersInvoked is the total number of handler invocations.
	HandlersInvoked uint64

	// HandlerPanics is the number of handler invocations that panicked.
	HandlerPanics uint64

	// ActiveSubscriptions is the current number of registered handlers.
	ActiveSubscriptions int
}

// subscription is one registered handler.
type subscription struct {
	id        string
	kind      Kind
	handler   Handler
	fnID      uintptr
	cancelled atomic.Bool
}

// Bus is a kind-keyed publish/subscribe registry with snapshot fan-out.
type Bus struct {
	mu        sync.Mutex
	subs      map[Kind][]*subscription
	report    Reporter
	destroyed bool

	emitted  atomic.Uint64
	invoked  atomic.Uint64
	panicked atomic.Uint64
}

// NewBus creates a bus reporting handler faults to report. A nil reporter
// swallows faults silently.
func NewBus(report Reporter) *Bus {
	if report == nil {
		report = func(error) {}
	}
	return &Bus{
		subs:   make(map[Kind][]*subscription),
		report: report,
	}
}

// On registers handler for kind and returns an idempotent unsubscribe.
// Registering on a destroyed bus or with a nil handler yields a no-op
// unsubscribe and no registration; the fault is reported, not returned,
// since subscription sites never fail.
func (b *Bus) On(kind Kind, handler Handler) func() {
	if handler == nil {
		b.report(fmt.Errorf("%w: on %q", ErrNilHandler, kind))
		return func() {}
	}

	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		b.report(fmt.Errorf("%w: on %q", ErrBusDestroyed, kind))
		return func() {}
	}
	defer b.mu.Unlock()

	sub := &subscription{
		id:      uuid.NewString(),
		kind:    kind,
		handler: handler,
		fnID:    reflect.ValueOf(handler).Pointer(),
	}
	b.subs[kind] = append(b.subs[kind], sub)

	return func() {
		if sub.cancelled.CompareAndSwap(false, true) {
			b.remove(kind, sub.id)
		}
	}
}

// Off removes the first registered handler for kind with the same function
// identity. Absent handlers are a no-op.
func (b *Bus) Off(kind Kind, handler Handler) {
	if handler == nil {
		return
	}
	fnID := reflect.ValueOf(handler).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[kind]
	for i, sub := range subs {
		if sub.fnID == fnID {
			sub.cancelled.Store(true)
			b.subs[kind] = append(subs[:i], subs[i+1:]...)
			if len(b.subs[kind]) == 0 {
				delete(b.subs, kind)
			}
			return
		}
	}
}

// remove deletes a subscription by ID.
func (b *Bus) remove(kind Kind, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[kind]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[kind] = append(subs[:i], subs[i+1:]...)
			if len(b.subs[kind]) == 0 {
				delete(b.subs, kind)
			}
			return
		}
	}
}

// Emit synchronously delivers e to every handler registered for its kind, in
// registration order, on a snapshot taken at emit time. Handler panics are
// isolated and reported; they never reach the caller.
func (b *Bus) Emit(e Event) {
	kind := e.EventKind()

	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	subs := b.subs[kind]
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	b.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}
	b.emitted.Add(1)

	// A handler added or removed during emission does not affect the
	// in-progress emission; the snapshot is delivered as taken.
	for _, sub := range snapshot {
		b.invoke(sub, e)
	}
}

// invoke runs one handler with panic isolation.
func (b *Bus) invoke(sub *subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.panicked.Add(1)
			b.report(&PanicError{
				SubscriptionID: sub.id,
				Kind:           sub.kind,
				Value:          r,
				Stack:          string(debug.Stack()),
			})
		}
	}()
	b.invoked.Add(1)
	sub.handler(e)
}

// Count returns the number of registered handlers for kind.
func (b *Bus) Count(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[kind])
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	active := 0
	for _, subs := range b.subs {
		active += len(subs)
	}
	b.mu.Unlock()

	return Stats{
		EventsEmitted:       b.emitted.Load(),
		HandlersInvoked:     b.invoked.Load(),
		HandlerPanics:       b.panicked.Load(),
		ActiveSubscriptions: active,
	}
}

// Destroy clears all handlers and rejects further registrations and
// emissions. Destroy is idempotent.
func (b *Bus) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.destroyed = true
	for kind, subs := range b.subs {
		for _, sub := range subs {
			sub.cancelled.Store(true)
		}
		delete(b.subs, kind)
	}
}

// Destroyed reports whether Destroy has been called.
func (b *Bus) Destroyed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}
