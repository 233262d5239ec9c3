package transport

import "sync/atomic"

// Mailbox is a single-slot, latest-wins handoff between one writer and one
// reader. A post overwrites any unconsumed value, which is exactly the
// backpressure policy the frame path wants: when the renderer ticks slower
// than the builder, stale frames are dropped rather than queued. No locks;
// the slot is an atomically swapped pointer and each side only ever reads
// data it was not concurrently writing.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
}

// Post places a value in the mailbox, replacing any unconsumed one.
//
// Parameters:
//   - v: the value to hand off; the caller gives up ownership
func (m *Mailbox[T]) Post(v *T) {
	m.slot.Store(v)
}

// Take removes and returns the pending value, or nil when the mailbox is
// empty. The caller assumes ownership of the returned value.
//
// Returns:
//   - *T: the pending value or nil
func (m *Mailbox[T]) Take() *T {
	return m.slot.Swap(nil)
}

// Pending reports whether a value is waiting without consuming it.
//
// Returns:
//   - bool: true when a posted value has not been taken yet
func (m *Mailbox[T]) Pending() bool {
	return m.slot.Load() != nil
}
