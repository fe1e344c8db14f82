package loop

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/lifecycle"
	"github.com/vovakirdan/frameloop/internal/refresh"
)

// LiteOptions configures a Lite scheduler. Every field is optional.
type LiteOptions struct {
	// Update runs once per frame, always first.
	Update func(deltaTime time.Duration)

	// Render runs once per frame, always last.
	Render func()

	Refresher refresh.Refresher // defaults to a 60 Hz refresh.Timer
	Clock     core.Clock        // defaults to core.SystemClock
	Logger    *log.Logger       // defaults to log.Default()
}

// Lite runs Update then Render once per refresh, without fixed steps.
type Lite struct {
	*runner
	update func(deltaTime time.Duration)
	render func()
}

// NewLite creates a stopped Lite scheduler.
func NewLite(opts LiteOptions) *Lite {
	l := &Lite{
		runner: newRunner("lite", opts.Refresher, opts.Clock, opts.Logger),
		update: opts.Update,
		render: opts.Render,
	}
	l.runner.frame = l.NextFrame
	return l
}

// Start runs the first frame with a zero delta and begins ticking.
// It fails with lifecycle.ErrIllegalTransition if already running.
func (l *Lite) Start() error {
	return l.runner.start()
}

// Stop cancels the pending refresh and resets transient state.
// It fails with lifecycle.ErrIllegalTransition if already stopped.
func (l *Lite) Stop() error {
	return l.runner.stop()
}

// NextFrame runs one frame directly, bypassing the refresher.
func (l *Lite) NextFrame(deltaTime time.Duration) {
	if l.update != nil {
		l.update(deltaTime)
	}
	if l.render != nil {
		l.render()
	}
}

// FramesPerSecond estimates the frame rate from the most recent tick.
// Returns 0 when stopped or when the last delta was 0.
func (l *Lite) FramesPerSecond() float64 {
	return l.runner.framesPerSecond()
}

// State returns the lifecycle state.
func (l *Lite) State() lifecycle.State {
	return l.runner.state()
}

// LastDeltaTime returns the delta of the most recent tick.
func (l *Lite) LastDeltaTime() time.Duration {
	return l.runner.lastDelta()
}
