package timesource

import (
	"golang.org/x/sys/unix"

	"if482gen/core"
)

// kernelStatus queries the kernel clock discipline via adjtimex.
// STA_UNSYNC means the clock was set but runs free, which maps onto the
// telegram's 'M' monitoring state. A failed syscall leaves us with no
// statement about validity at all.
func kernelStatus() core.TimeStatus {
	var tx unix.Timex
	if _, err := unix.Adjtimex(&tx); err != nil {
		return core.TimeNotSet
	}
	if tx.Status&unix.STA_UNSYNC != 0 {
		return core.TimeStaleSync
	}
	return core.TimeSynced
}
