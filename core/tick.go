package core

// TickFreq is the rate of the monotonic tick counter.
const (
	TickFreq = 1000000 // 1MHz microsecond counter (RP2040 hardware timer rate)
)

// TicksPerSecond is one wall-clock second expressed in ticks.
const TicksPerSecond = TickFreq

// TicksFromMS converts milliseconds to timer ticks.
func TicksFromMS(ms uint32) uint32 {
	return ms * (TickFreq / 1000)
}

// TicksToMS converts timer ticks to milliseconds.
func TicksToMS(ticks uint32) uint32 {
	return ticks / (TickFreq / 1000)
}

// TicksSince returns the ticks elapsed from earlier to later, correct
// across uint32 counter wraparound.
func TicksSince(later, earlier uint32) uint32 {
	return later - earlier
}

// TickClock abstracts the monotonic tick counter and its deadline sleep.
// Platform-specific implementations handle the actual counter: the runtime
// monotonic clock on regular Go (host/hostclock), the hardware timer
// peripheral under targets/.
type TickClock interface {
	// Ticks returns the current counter value. Must be safe to call from
	// interrupt context.
	Ticks() uint32

	// SleepUntil blocks until the counter reaches deadline. The deadline
	// is absolute and wraparound-aware; a deadline already in the past
	// returns immediately. Relative sleeps are deliberately not offered:
	// they accumulate drift across cycles.
	SleepUntil(deadline uint32)
}
