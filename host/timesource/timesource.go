// Package timesource reads the operating system clock and, where the
// platform allows, its NTP discipline state.
package timesource

import (
	"time"

	"if482gen/core"
)

// System implements core.TimeSource on the host operating system clock.
// The clock itself is disciplined elsewhere (ntpd, chrony, systemd);
// System only reports what the kernel says about it.
type System struct{}

// Now returns the current system time.
func (System) Now() time.Time {
	return time.Now()
}

// Status reports the kernel's view of clock validity.
func (System) Status() core.TimeStatus {
	return kernelStatus()
}
