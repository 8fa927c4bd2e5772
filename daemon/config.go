package daemon

import (
	"encoding"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"if482gen/core"
	"if482gen/host/serial"
)

// Config is the configuration for the IF482 generator daemon.
type Config struct {
	// Device is the path to the serial device driving the slave clocks.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the serial line speed. IF482 receivers expect 9600; the
	// 7E1 framing is fixed and not configurable.
	Baud int `toml:"baud"`
	// TransmitOffset is the delay after each second's edge before the
	// telegram transmission starts. It must leave room for the frame to
	// finish by the next boundary.
	TransmitOffset TOMLDuration `toml:"transmit_offset"`
}

// DefaultConfig returns a config with everything but the device filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// ParseConfig reads and decodes a TOML configuration. Validation is left
// to the caller so flag overrides can be applied first.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "cannot decode TOML")
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	if cfg.TransmitOffset == 0 {
		cfg.TransmitOffset = TOMLDuration(core.DefaultTransmitOffsetMS * time.Millisecond)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no serial device configured")
	}
	if c.Baud <= 0 {
		return errors.Errorf("invalid baud rate %d", c.Baud)
	}
	// Bound the duration before any tick conversion: LoopConfig truncates
	// to uint32 ticks, which would let absurd offsets wrap back inside
	// one second.
	offset := time.Duration(c.TransmitOffset)
	if offset < 0 {
		return errors.Errorf("negative transmit offset %v", offset)
	}
	if offset >= time.Second {
		return errors.Errorf("transmit offset %v is not inside one second", offset)
	}
	if err := c.LoopConfig().Validate(); err != nil {
		return errors.Wrap(err, "invalid transmit offset")
	}
	return nil
}

// LoopConfig converts the transmit offset into core ticks.
func (c *Config) LoopConfig() core.Config {
	offset := time.Duration(c.TransmitOffset)
	return core.Config{
		TransmitOffset: core.TicksFromMS(uint32(offset / time.Millisecond)),
	}
}

// SerialConfig returns the serial port configuration for this daemon.
func (c *Config) SerialConfig() *serial.Config {
	sc := serial.DefaultConfig(c.Device)
	sc.Baud = c.Baud
	return sc
}

// TOMLDuration is a time.Duration that unmarshals from a TOML string.
type TOMLDuration time.Duration

var _ encoding.TextUnmarshaler = (*TOMLDuration)(nil)

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *TOMLDuration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(v)
	return nil
}
