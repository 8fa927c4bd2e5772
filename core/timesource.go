package core

import "time"

// TimeSource is the system-wide time-of-day clock. It is acquired and
// disciplined elsewhere (NTP, GPS, battery RTC); the core only reads it.
type TimeSource interface {
	// Status reports whether the source currently holds valid time.
	Status() TimeStatus

	// Now returns the source's current time. Only meaningful when Status
	// is better than TimeNotSet.
	Now() time.Time
}
