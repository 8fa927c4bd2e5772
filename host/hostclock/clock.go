// Package hostclock implements the core tick clock on regular Go targets,
// backed by the runtime's monotonic clock at microsecond resolution. It
// mimics a 32-bit hardware counter: the tick value wraps roughly every
// 71.6 minutes, and all deadline arithmetic is wraparound-aware.
package hostclock

import (
	"time"

	"if482gen/core"
)

// Clock implements core.TickClock.
type Clock struct {
	base time.Time
}

var _ core.TickClock = (*Clock)(nil)

// New starts a tick counter at the current instant.
func New() *Clock {
	return &Clock{base: time.Now()}
}

// Ticks returns microseconds since the clock was created, truncated to
// 32 bits like a hardware counter register.
func (c *Clock) Ticks() uint32 {
	return uint32(time.Since(c.base).Microseconds())
}

// SleepUntil blocks until the counter reaches deadline. Deltas of half the
// counter range or more mean the deadline already passed; those return
// immediately instead of sleeping for half an hour.
func (c *Clock) SleepUntil(deadline uint32) {
	delta := deadline - c.Ticks()
	if delta == 0 || delta >= 1<<31 {
		return
	}
	time.Sleep(time.Duration(delta) * time.Microsecond)
}
