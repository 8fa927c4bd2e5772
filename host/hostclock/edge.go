package hostclock

import (
	"context"
	"time"
)

// EdgeTicker stands in for the RTC square-wave pin on hosts without one:
// it invokes the bound edge handler at each wall-clock second boundary.
// Sleeping to the absolute boundary each iteration keeps the emulated
// edge from drifting the way a fixed-period ticker would.
type EdgeTicker struct {
	handler func()
}

// NewEdgeTicker binds handler (normally core.EdgeSignal.Handler) to the
// emulated 1Hz edge.
func NewEdgeTicker(handler func()) *EdgeTicker {
	return &EdgeTicker{handler: handler}
}

// Run fires the handler at each second rollover until ctx is canceled.
func (e *EdgeTicker) Run(ctx context.Context) error {
	for {
		now := time.Now()
		next := now.Truncate(time.Second).Add(time.Second)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			e.handler()
		}
	}
}
