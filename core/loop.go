package core

import (
	"fmt"
	"io"
	"time"
)

// DefaultTransmitOffsetMS delays transmission so the frame's final byte
// meets the next second boundary: 17 bytes at 9600 baud 7E1 occupy about
// 17.7ms on the wire.
const DefaultTransmitOffsetMS = 982

// Config holds the synchronization loop's timing configuration.
type Config struct {
	// TransmitOffset is the delay in ticks, measured from the second's
	// edge, before telegram transmission starts. Must stay inside the
	// second: the schedule is undefined otherwise.
	TransmitOffset uint32
}

// DefaultConfig returns the standard IF482 transmit schedule.
func DefaultConfig() Config {
	return Config{TransmitOffset: TicksFromMS(DefaultTransmitOffsetMS)}
}

// Validate rejects offsets that cannot produce a well-defined schedule.
func (c Config) Validate() error {
	if c.TransmitOffset == 0 {
		return fmt.Errorf("transmit offset must be positive")
	}
	if c.TransmitOffset >= TicksPerSecond {
		return fmt.Errorf("transmit offset %dms is not inside one second", TicksToMS(c.TransmitOffset))
	}
	return nil
}

// Stats counts the loop's activity. Written by the running loop; read it
// from the loop's goroutine or after Run has returned.
type Stats struct {
	Cycles       uint64 // telegrams transmitted
	LastEdgeTick uint32 // counter value of the most recent edge
	ElapsedTicks uint32 // ticks from second-boundary alignment to that edge
}

// Loop is the synchronization loop: it blocks on the edge signal, delays
// to the transmit window and emits one telegram per hardware edge.
//
// It runs for the lifetime of the process. An absent edge signal is a
// hardware fault outside this loop's remit; it simply stays blocked.
type Loop struct {
	cfg    Config
	clock  TickClock
	source TimeSource
	edge   *EdgeSignal
	port   io.Writer

	tick0 uint32 // counter value at second-boundary alignment
	stats Stats
}

// NewLoop validates cfg and assembles a loop around its collaborators.
func NewLoop(cfg Config, clock TickClock, source TimeSource, edge *EdgeSignal, port io.Writer) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Loop{
		cfg:    cfg,
		clock:  clock,
		source: source,
		edge:   edge,
		port:   port,
	}, nil
}

// Run aligns to a second boundary, then emits one telegram per edge until
// the transport fails. It never returns otherwise.
func (l *Loop) Run() error {
	l.align()

	for {
		tickEdge := l.edge.Wait()

		// The edge marks the start of second t. The telegram transmitted
		// during the tail of this second describes t+1, so its final byte
		// arrives at the boundary of the second it specifies.
		t := l.source.Now()
		status := l.source.Status()

		l.stats.Cycles++
		l.stats.LastEdgeTick = tickEdge
		l.stats.ElapsedTicks = TicksSince(tickEdge, l.tick0)

		l.clock.SleepUntil(tickEdge + l.cfg.TransmitOffset)

		// A source with no valid time still gets a frame on the wire:
		// downstream clocks key off the telegram cadence, and Format
		// degrades the payload to the '?' placeholder on its own.
		frame := Format(t.Add(time.Second), status)
		if _, err := l.port.Write(frame[:]); err != nil {
			return fmt.Errorf("telegram write: %w", err)
		}
	}
}

// align waits for the time source's second to roll over and pins the
// reference tick to that boundary. An unset source never rolls over, so
// the current counter value has to do as reference until time arrives.
func (l *Loop) align() {
	if l.source.Status() == TimeNotSet {
		l.tick0 = l.clock.Ticks()
		return
	}

	s := l.source.Now().Second()
	for l.source.Now().Second() == s {
		l.clock.SleepUntil(l.clock.Ticks() + TicksFromMS(1))
	}
	l.tick0 = l.clock.Ticks()
}

// Stats returns a snapshot of the loop counters.
func (l *Loop) Stats() Stats {
	return l.stats
}
