//go:build rp2040

package main

import (
	"runtime/volatile"
	"time"
	"unsafe"
)

// RP2040 Timer peripheral memory map
// The timer is a 64-bit microsecond counter at 1MHz, matching core.TickFreq;
// the tick domain only ever reads the low word.
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// hwClock implements core.TickClock on the RP2040 hardware timer.
type hwClock struct{}

// Ticks reads the low 32 bits of the microsecond counter. A single
// volatile register read, safe from interrupt context.
func (hwClock) Ticks() uint32 {
	return timerRAWL.Get()
}

// SleepUntil parks the goroutine until the counter reaches deadline.
// Deltas of half the counter range or more mean the deadline passed.
func (c hwClock) SleepUntil(deadline uint32) {
	delta := deadline - c.Ticks()
	if delta == 0 || delta >= 1<<31 {
		return
	}
	time.Sleep(time.Duration(delta) * time.Microsecond)
}
