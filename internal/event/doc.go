// Package event implements the notification bus that fans viewport
// transitions out to subscribers.
//
// The bus is keyed by event kind. Payloads are tagged variants implementing
// the Event interface, so each kind carries a concrete payload type instead
// of a loosely unioned callback shape.
//
// Delivery guarantees:
//   - Handlers for a kind run in registration order.
//   - Emission iterates a snapshot of the handler set taken at emit time;
//     subscribing or unsubscribing from inside a handler does not affect the
//     in-progress emission.
//   - A panicking handler never prevents delivery to the remaining handlers
//     and never propagates to the emitter. Faults are reported to the bus's
//     diagnostic reporter.
//   - Unsubscribe closures are idempotent.
package event
