package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
// A telegram is a single 17-byte write; the OS driver drains it well
// inside the transmit window, so no explicit flush is part of the
// contract.
type Port interface {
	io.WriteCloser
}

// Parity is the serial parity mode.
type Parity byte

const (
	ParityNone Parity = 'N'
	ParityEven Parity = 'E'
	ParityOdd  Parity = 'O'
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate (9600 for IF482 receivers)
	Baud int

	// DataBits per character (IF482 uses 7)
	DataBits byte

	// Parity mode (IF482 uses even)
	Parity Parity

	// StopBits after each character (IF482 uses 1)
	StopBits byte
}

// DefaultConfig returns the IF482 line discipline: 9600 baud, 7 data bits,
// even parity, 1 stop bit.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:   device,
		Baud:     9600,
		DataBits: 7,
		Parity:   ParityEven,
		StopBits: 1,
	}
}
