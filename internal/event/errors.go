package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the notification bus.
var (
	// ErrBusDestroyed is reported when a registration reaches a destroyed
	// bus. Subscription sites never fail; the fault goes to the reporter.
	ErrBusDestroyed = errors.New("notification bus is destroyed")

	// ErrNilHandler is reported when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrHandlerPanic is the class of errors produced by panicking handlers.
	ErrHandlerPanic = errors.New("handler panicked")
)

// PanicError reports a handler panic captured during emission.
type PanicError struct {
	// SubscriptionID identifies the faulting subscription.
	SubscriptionID string

	// Kind is the event kind being delivered.
	Kind Kind

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for subscription %s on %q: %v", e.SubscriptionID, e.Kind, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}
