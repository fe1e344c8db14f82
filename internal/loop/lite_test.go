package loop

import (
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/lifecycle"
	"github.com/vovakirdan/frameloop/internal/refresh"
)

func newManualLite(update func(time.Duration), render func()) (*Lite, *refresh.Manual) {
	pump := refresh.NewManual(time.Unix(0, 0))
	l := NewLite(LiteOptions{
		Update:    update,
		Render:    render,
		Refresher: pump,
		Clock:     pump.Clock(),
		Logger:    log.New(io.Discard),
	})
	return l, pump
}

func TestLiteOrderOfExecution(t *testing.T) {
	var order []string
	l, pump := newManualLite(
		func(time.Duration) { order = append(order, "Update") },
		func() { order = append(order, "Render") },
	)

	l.Start()
	defer l.Stop()

	expected := []string{"Update", "Render"}
	if !slices.Equal(order, expected) {
		t.Errorf("frame 1 order = %v, expected %v", order, expected)
	}

	order = order[:0]
	pump.Advance(16 * ms)
	if !slices.Equal(order, expected) {
		t.Errorf("frame 2 order = %v, expected %v", order, expected)
	}
}

func TestLiteUpdateDelta(t *testing.T) {
	var deltas []time.Duration
	l, pump := newManualLite(func(dt time.Duration) { deltas = append(deltas, dt) }, nil)

	l.Start()
	defer l.Stop()

	pump.Advance(1 * ms)
	pump.Advance(20 * ms)

	expected := []time.Duration{0, 1 * ms, 20 * ms}
	if !slices.Equal(deltas, expected) {
		t.Errorf("deltas = %v, expected %v", deltas, expected)
	}
}

// earlyRefresher fires with a timestamp earlier than the scheduler baseline,
// like a vsync timestamp that precedes the clock reading taken at start.
type earlyRefresher struct {
	leakyRefresher
}

func TestLiteClampsNegativeDelta(t *testing.T) {
	var deltas []time.Duration
	r := &earlyRefresher{}
	l := NewLite(LiteOptions{
		Update:    func(dt time.Duration) { deltas = append(deltas, dt) },
		Refresher: r,
		Logger:    log.New(io.Discard),
	})

	l.Start()
	defer l.Stop()

	r.fireAll(time.Now().Add(-5 * ms))

	if len(deltas) != 2 {
		t.Fatalf("got %d frames, expected 2", len(deltas))
	}
	if deltas[1] != 0 {
		t.Errorf("negative delta should clamp to 0, got %v", deltas[1])
	}
	if l.LastDeltaTime() < 0 {
		t.Errorf("LastDeltaTime() = %v, must never be negative", l.LastDeltaTime())
	}
}

func TestLiteNextFrameWithoutCallbacks(t *testing.T) {
	l := NewLite(LiteOptions{Logger: log.New(io.Discard)})
	// Must not panic
	l.NextFrame(10 * ms)
}

func TestLiteLifecycle(t *testing.T) {
	l, pump := newManualLite(nil, nil)

	if err := l.Stop(); !errors.Is(err, lifecycle.ErrIllegalTransition) {
		t.Errorf("Stop() on fresh scheduler = %v, expected ErrIllegalTransition", err)
	}

	if err := l.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := l.Start(); !errors.Is(err, lifecycle.ErrIllegalTransition) {
		t.Errorf("second Start() = %v, expected ErrIllegalTransition", err)
	}

	if err := l.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if pump.Pending() != 0 {
		t.Errorf("Pending() = %d after Stop, expected 0", pump.Pending())
	}
	if l.State() != lifecycle.Stopped {
		t.Errorf("State() = %s, expected stopped", l.State())
	}
}

func TestLiteFramesPerSecond(t *testing.T) {
	l, pump := newManualLite(nil, nil)

	if fps := l.FramesPerSecond(); fps != 0 {
		t.Errorf("FramesPerSecond() = %v when stopped, expected 0", fps)
	}

	l.Start()
	pump.Advance(20 * ms)

	if fps := l.FramesPerSecond(); fps != 50 {
		t.Errorf("FramesPerSecond() = %v, expected 50", fps)
	}

	l.Stop()
	if fps := l.FramesPerSecond(); fps != 0 {
		t.Errorf("FramesPerSecond() = %v after Stop, expected 0", fps)
	}
}
