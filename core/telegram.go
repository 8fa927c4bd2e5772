// IF482 time telegram formatting
// Frame layout follows the Mobatime IF482 specification (TE-112023):
// 17 ASCII bytes per second, the last byte landing at the start of the
// second the telegram describes.
package core

import "time"

// TimeStatus reports the validity of the external time source.
type TimeStatus uint8

const (
	// TimeNotSet means no valid time has ever been acquired.
	TimeNotSet TimeStatus = iota
	// TimeStaleSync means time was set but the last sync attempt is old.
	TimeStaleSync
	// TimeSynced means time is set and recently synced.
	TimeSynced
)

// FrameLen is the fixed size of an IF482 telegram.
const FrameLen = 17

// Telegram is a single IF482 frame.
type Telegram [FrameLen]byte

// Digit-field placeholder transmitted while no valid time is available.
// Receivers still see a correctly framed telegram every second.
const notSetDigits = "000000F000000"

// Format builds the telegram describing time t.
//
// The monitoring byte reflects status: 'A' synced, 'M' stale, '?' not set.
// While status is TimeNotSet the digit fields keep their zero placeholder;
// real digits are never derived from an unset clock. The weekday digit is
// encoded 1=Sunday .. 7=Saturday.
func Format(t time.Time, status TimeStatus) Telegram {
	var f Telegram

	f[0] = 'O'
	switch status {
	case TimeSynced:
		f[1] = 'A'
	case TimeStaleSync:
		f[1] = 'M'
	default:
		f[1] = '?'
	}
	f[2] = 'L' // local time, no season switching

	if status == TimeNotSet {
		copy(f[3:16], notSetDigits)
	} else {
		putDigits2(f[3:], t.Year()%100)
		putDigits2(f[5:], int(t.Month()))
		putDigits2(f[7:], t.Day())
		f[9] = byte('1' + int(t.Weekday()))
		putDigits2(f[10:], t.Hour())
		putDigits2(f[12:], t.Minute())
		putDigits2(f[14:], t.Second())
	}

	f[16] = '\r'
	return f
}

// putDigits2 writes v as two zero-padded decimal digits.
func putDigits2(dst []byte, v int) {
	dst[0] = byte('0' + (v/10)%10)
	dst[1] = byte('0' + v%10)
}

// String returns the frame as a string, mainly for logging and tests.
func (f Telegram) String() string {
	return string(f[:])
}
