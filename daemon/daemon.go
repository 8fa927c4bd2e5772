// Package daemon wires the synchronization core to a host machine: native
// serial transport, monotonic tick clock, the system time source and an
// emulated 1Hz edge in place of an RTC square-wave pin.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"if482gen/core"
	"if482gen/host/hostclock"
	"if482gen/host/serial"
	"if482gen/host/timesource"
)

// Daemon runs the IF482 generator on a host machine.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger

	port  serial.Port
	clock *hostclock.Clock
	edge  *core.EdgeSignal
	loop  *core.Loop
}

// New validates cfg, opens the serial port and assembles the generator.
func New(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.SerialConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	clock := hostclock.New()
	edge := core.NewEdgeSignal()

	loop, err := core.NewLoop(cfg.LoopConfig(), clock, timesource.System{}, edge, port)
	if err != nil {
		port.Close()
		return nil, err
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
		port:   port,
		clock:  clock,
		edge:   edge,
		loop:   loop,
	}, nil
}

// Run drives the loop and the emulated edge until ctx is canceled or the
// transport fails.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.port.Close()

	d.logger.Info("starting IF482 generator",
		"device", d.cfg.Device,
		"baud", d.cfg.Baud,
		"transmit_offset", time.Duration(d.cfg.TransmitOffset).String())

	// The loop itself has no cancellation: it lives for the process. Its
	// only exit is a transport write failure, collected here.
	loopErr := make(chan error, 1)
	go func() {
		loopErr <- d.loop.Run()
	}()

	ticker := hostclock.NewEdgeTicker(d.edge.Handler(d.clock))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ticker.Run(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-loopErr:
			d.logger.Error("telegram loop failed", "err", err)
			return err
		}
	})
	return g.Wait()
}
