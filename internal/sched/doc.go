// Package sched provides the scheduling primitives used to coalesce bursts of
// host signals into single recomputations: a single-flight frame scheduler and
// a trailing-edge debouncer.
//
// Both primitives are explicit Idle/Pending state machines with a uniform
// Cancel, so teardown can synchronously guarantee that no callback fires after
// it returns. Timers are created through the Clock interface, allowing tests
// to drive time manually.
package sched
