//go:build rp2040

package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ds3231"

	"if482gen/core"
)

// DS3231 control register bits steering the SQW pin.
const (
	ds3231Addr = 0x68
	regControl = 0x0E
	ctrlINTCN  = 1 << 2 // interrupt mode; clear for square wave output
	ctrlRS1    = 1 << 3 // rate select, both clear = 1Hz
	ctrlRS2    = 1 << 4
)

// rtcSource implements core.TimeSource on a DS3231 battery RTC.
type rtcSource struct {
	dev ds3231.Device
}

// newRTCSource configures the RTC and switches its SQW pin to a 1Hz
// square wave, the edge source for the synchronization loop.
func newRTCSource(bus *machine.I2C) (*rtcSource, error) {
	if err := bus.Configure(machine.I2CConfig{}); err != nil {
		return nil, err
	}

	dev := ds3231.New(bus)
	dev.Configure()

	ctrl := []byte{0}
	if err := bus.ReadRegister(ds3231Addr, regControl, ctrl); err != nil {
		return nil, err
	}
	ctrl[0] &^= ctrlINTCN | ctrlRS1 | ctrlRS2
	if err := bus.WriteRegister(ds3231Addr, regControl, ctrl); err != nil {
		return nil, err
	}

	return &rtcSource{dev: dev}, nil
}

// Status reports whether the RTC holds valid time. The DS3231 oscillator
// stop flag is the only validity signal the chip offers; there is no
// staleness notion without an upstream sync source.
func (r *rtcSource) Status() core.TimeStatus {
	if !r.dev.IsTimeValid() {
		return core.TimeNotSet
	}
	return core.TimeSynced
}

// Now reads the RTC time over I2C.
func (r *rtcSource) Now() time.Time {
	t, err := r.dev.ReadTime()
	if err != nil {
		return time.Time{}
	}
	return t
}
