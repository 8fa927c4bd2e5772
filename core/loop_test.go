package core

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// simWorld couples a fake tick counter to a fake time source: sleeping on
// the tick clock advances the time source by the same amount, the way a
// hardware counter and an RTC move together. It records every absolute
// deadline the loop sleeps to.
type simWorld struct {
	mu        sync.Mutex
	tick      uint32
	now       time.Time
	status    TimeStatus
	deadlines []uint32
}

func newSimWorld(tick uint32, now time.Time, status TimeStatus) *simWorld {
	return &simWorld{tick: tick, now: now, status: status}
}

func (w *simWorld) Ticks() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tick
}

func (w *simWorld) SleepUntil(deadline uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deadlines = append(w.deadlines, deadline)

	delta := deadline - w.tick
	if delta == 0 || delta >= 1<<31 {
		return
	}
	w.tick = deadline
	w.now = w.now.Add(time.Duration(delta) * time.Microsecond)
}

func (w *simWorld) Now() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

func (w *simWorld) Status() TimeStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *simWorld) lastDeadline() uint32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deadlines[len(w.deadlines)-1]
}

// chanPort hands each written frame to the test. Unbuffered, so the test
// also controls when the loop may proceed past a transmission.
type chanPort struct {
	frames chan string
}

func (p *chanPort) Write(b []byte) (int, error) {
	p.frames <- string(b)
	return len(b), nil
}

// errPort fails every write.
type errPort struct {
	err error
}

func (p *errPort) Write(b []byte) (int, error) {
	return 0, p.err
}

func recvFrame(t *testing.T, frames chan string) string {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(time.Second):
		t.Fatal("no telegram transmitted")
		return ""
	}
}

func TestLoopConfigValidation(t *testing.T) {
	testCases := []struct {
		name   string
		offset uint32
		ok     bool
	}{
		{"zero", 0, false},
		{"default", TicksFromMS(DefaultTransmitOffsetMS), true},
		{"just_inside_second", TicksPerSecond - 1, true},
		{"full_second", TicksPerSecond, false},
		{"beyond_second", TicksPerSecond + TicksFromMS(100), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Config{TransmitOffset: tc.offset}.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate rejected offset %d: %v", tc.offset, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("Validate accepted offset %d", tc.offset)
			}
		})
	}
}

func TestLoopConsecutiveSeconds(t *testing.T) {
	// 999ms into second :59, 1ms before a boundary, so alignment settles
	// on tick 1000000 at exactly 17:04:00.
	start := time.Date(2016, time.August, 6, 17, 3, 59, 999000000, time.UTC)
	w := newSimWorld(999000, start, TimeSynced)
	edge := NewEdgeSignal()
	port := &chanPort{frames: make(chan string)}

	loop, err := NewLoop(Config{TransmitOffset: TicksFromMS(982)}, w, w, edge, port)
	if err != nil {
		t.Fatal(err)
	}
	go loop.Run()

	// Edge at the start of second :00 produces the telegram for :01.
	edge.Notify(1000000)
	if got, want := recvFrame(t, port.frames), "OAL1608067170401\r"; got != want {
		t.Errorf("first telegram %q, want %q", got, want)
	}
	if got, want := w.lastDeadline(), uint32(1000000+982000); got != want {
		t.Errorf("transmit deadline %d, want edge tick + offset = %d", got, want)
	}

	// Next edge one second later: the telegrams must describe consecutive
	// seconds with no repeats or gaps.
	w.SleepUntil(2000000)
	edge.Notify(2000000)
	if got, want := recvFrame(t, port.frames), "OAL1608067170402\r"; got != want {
		t.Errorf("second telegram %q, want %q", got, want)
	}
}

func TestLoopRapidFireEdgesCoalesce(t *testing.T) {
	start := time.Date(2016, time.August, 6, 17, 3, 59, 999000000, time.UTC)
	w := newSimWorld(999000, start, TimeSynced)
	edge := NewEdgeSignal()
	port := &gatePort{
		entered: make(chan string),
		release: make(chan struct{}),
	}

	loop, err := NewLoop(Config{TransmitOffset: TicksFromMS(982)}, w, w, edge, port)
	if err != nil {
		t.Fatal(err)
	}
	go loop.Run()

	edge.Notify(1000000)

	// The loop is now held inside its transmission. Four more edges land
	// while it is busy; they must coalesce into one pending wakeup.
	awaitWrite(t, port)
	for i := uint32(1); i <= 4; i++ {
		edge.Notify(1000000 + i)
	}
	port.release <- struct{}{}

	awaitWrite(t, port)
	port.release <- struct{}{}

	select {
	case f := <-port.entered:
		t.Errorf("got extra telegram %q; burst of edges must yield one pending cycle", f)
	case <-time.After(50 * time.Millisecond):
	}
}

// gatePort reports when a write begins and holds it until released, so a
// test can pin the loop mid-transmission.
type gatePort struct {
	entered chan string
	release chan struct{}
}

func (p *gatePort) Write(b []byte) (int, error) {
	p.entered <- string(b)
	<-p.release
	return len(b), nil
}

func awaitWrite(t *testing.T, p *gatePort) string {
	t.Helper()
	select {
	case f := <-p.entered:
		return f
	case <-time.After(time.Second):
		t.Fatal("no telegram transmission started")
		return ""
	}
}

func TestLoopNotSetStillTransmits(t *testing.T) {
	// Frozen, unset time source: the cadence must survive, with the
	// payload degraded to the placeholder.
	w := newSimWorld(5000, time.Time{}, TimeNotSet)
	edge := NewEdgeSignal()
	port := &chanPort{frames: make(chan string)}

	loop, err := NewLoop(DefaultConfig(), w, w, edge, port)
	if err != nil {
		t.Fatal(err)
	}
	go loop.Run()

	edge.Notify(5000)
	if got, want := recvFrame(t, port.frames), "O?L000000F000000\r"; got != want {
		t.Errorf("telegram %q, want %q", got, want)
	}
}

func TestLoopWriteFailurePropagates(t *testing.T) {
	w := newSimWorld(5000, time.Time{}, TimeNotSet)
	edge := NewEdgeSignal()
	wantErr := errors.New("port gone")

	loop, err := NewLoop(DefaultConfig(), w, w, edge, &errPort{err: wantErr})
	if err != nil {
		t.Fatal(err)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- loop.Run()
	}()

	edge.Notify(6000)

	select {
	case err := <-runErr:
		if !errors.Is(err, wantErr) {
			t.Errorf("Run returned %v, want wrapped %v", err, wantErr)
		}
		if !strings.Contains(err.Error(), "telegram write") {
			t.Errorf("Run error %q lacks write context", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after write failure")
	}

	stats := loop.Stats()
	if stats.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", stats.Cycles)
	}
	if stats.LastEdgeTick != 6000 {
		t.Errorf("LastEdgeTick = %d, want 6000", stats.LastEdgeTick)
	}
	if stats.ElapsedTicks != 1000 {
		t.Errorf("ElapsedTicks = %d, want 1000", stats.ElapsedTicks)
	}
}
