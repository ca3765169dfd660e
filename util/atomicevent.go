// Package util carries small concurrency helpers shared across the
// application.
package util

import (
	"sync"
)

// AtomicEvent hands the latest value of type T from one goroutine to
// another without ever blocking the sender. Only the most recent value is
// retained: when ticks arrive faster than the consumer renders them, the
// burst collapses to the newest one.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	notify chan struct{}
}

// NewAtomicEvent creates a new AtomicEvent instance.
func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{
		// A buffer of one makes Send non-blocking while still waking a
		// consumer parked on Channel.
		notify: make(chan struct{}, 1),
	}
}

// Send publishes the latest value. It never blocks.
func (ae *AtomicEvent[T]) Send(event T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value = event

	select {
	case ae.notify <- struct{}{}:
	default:
		// A notification is already pending.
	}
}

// Channel returns the notification channel for use in select statements.
func (ae *AtomicEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

// Value returns the latest published value.
func (ae *AtomicEvent[T]) Value() T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value
}

// HasPending reports whether a notification is waiting to be consumed,
// without consuming it.
func (ae *AtomicEvent[T]) HasPending() bool {
	return len(ae.notify) > 0
}
