package core

import "sync/atomic"

// EdgeSignal hands the tick timestamp of a hardware clock edge from the
// interrupt handler to the synchronization loop. Single producer, single
// consumer, at most one pending signal: an edge arriving before the loop
// has woken simply overwrites the pending tick value. No queue of past
// edges is kept; the loop only needs "an edge occurred, here is its tick".
type EdgeSignal struct {
	tick uint32        // last captured counter value
	wake chan struct{} // capacity 1
}

// NewEdgeSignal creates an empty edge mailbox.
func NewEdgeSignal() *EdgeSignal {
	return &EdgeSignal{wake: make(chan struct{}, 1)}
}

// Notify records the edge's tick value and wakes the loop. Safe to call
// from interrupt context: no allocation, never blocks.
func (s *EdgeSignal) Notify(tick uint32) {
	atomic.StoreUint32(&s.tick, tick)
	select {
	case s.wake <- struct{}{}:
	default: // a wakeup is already pending
	}
}

// Wait blocks until an edge has been signaled and returns its tick value.
func (s *EdgeSignal) Wait() uint32 {
	<-s.wake
	return atomic.LoadUint32(&s.tick)
}

// Handler returns the function to bind to the 1Hz edge interrupt. The
// returned closure captures the counter at the moment of the edge and
// signals the loop; it does nothing else.
func (s *EdgeSignal) Handler(clock TickClock) func() {
	return func() {
		s.Notify(clock.Ticks())
	}
}
