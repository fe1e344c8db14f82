// Package loop implements frame schedulers that decouple variable-rate
// rendering from fixed-rate logic.
//
// Loop is the fixed-timestep accumulator loop: every refresh adds the elapsed
// time to an accumulator, runs as many FixedUpdate steps as fit, and hands the
// leftover fraction (alpha) to LateUpdate and Render for interpolation.
// The accumulator is capped at MaximumDeltaTime so a slow machine never
// schedules an unbounded backlog of steps.
//
// Lite is the simple variant: Update then Render once per refresh.
//
// Both are driven by a refresh.Refresher and share a Stopped/Running
// lifecycle. NextFrame is public on both so frames can be stepped manually.
package loop

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/lifecycle"
	"github.com/vovakirdan/frameloop/internal/refresh"
)

// Unbounded disables the accumulator cap when used as MaximumDeltaTime.
const Unbounded = time.Duration(math.MaxInt64)

// ErrInvalidOptions is returned by New for an unusable configuration.
var ErrInvalidOptions = errors.New("loop: invalid options")

// maxAlpha is the largest float64 below 1.
var maxAlpha = math.Nextafter(1, 0)

// Options configures a fixed-step Loop.
type Options struct {
	// FixedDeltaTime is the length of one logic step. Must be positive.
	FixedDeltaTime time.Duration

	// MaximumDeltaTime caps the accumulated time per frame and must be at
	// least FixedDeltaTime. Use Unbounded to disable the cap.
	MaximumDeltaTime time.Duration

	// Update runs once per frame before any fixed step and receives the
	// raw frame delta. Handle input here.
	Update func(deltaTime time.Duration)

	// FixedUpdate runs zero or more times per frame, always with
	// FixedDeltaTime. Keep it to simulation work.
	FixedUpdate func(fixedDeltaTime time.Duration)

	// LateUpdate runs once per frame after the fixed steps.
	LateUpdate func(deltaTime time.Duration, alpha float64)

	// Render runs once per frame, always last.
	Render func(alpha float64)

	Refresher refresh.Refresher // defaults to a 60 Hz refresh.Timer
	Clock     core.Clock        // defaults to core.SystemClock
	Logger    *log.Logger       // defaults to log.Default()
}

// Validate checks the timing configuration.
func (o Options) Validate() error {
	if o.FixedDeltaTime <= 0 {
		return fmt.Errorf("%w: fixed delta time must be positive, got %v", ErrInvalidOptions, o.FixedDeltaTime)
	}
	if o.MaximumDeltaTime < o.FixedDeltaTime {
		return fmt.Errorf("%w: maximum delta time %v is less than fixed delta time %v",
			ErrInvalidOptions, o.MaximumDeltaTime, o.FixedDeltaTime)
	}
	return nil
}

// Loop is the fixed-timestep frame scheduler.
type Loop struct {
	*runner

	fixedDeltaTime   time.Duration
	maximumDeltaTime time.Duration

	update      func(deltaTime time.Duration)
	fixedUpdate func(fixedDeltaTime time.Duration)
	lateUpdate  func(deltaTime time.Duration, alpha float64)
	render      func(alpha float64)

	accMu       sync.Mutex
	accumulator time.Duration
}

// New creates a stopped Loop. It returns an error wrapping ErrInvalidOptions
// when the timing configuration is invalid.
func New(opts Options) (*Loop, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	l := &Loop{
		runner:           newRunner("fixed", opts.Refresher, opts.Clock, opts.Logger),
		fixedDeltaTime:   opts.FixedDeltaTime,
		maximumDeltaTime: opts.MaximumDeltaTime,
		update:           opts.Update,
		fixedUpdate:      opts.FixedUpdate,
		lateUpdate:       opts.LateUpdate,
		render:           opts.Render,
	}
	l.runner.frame = l.NextFrame
	l.runner.onStart = l.resetAccumulator
	return l, nil
}

// MustNew is like New but panics on invalid options.
func MustNew(opts Options) *Loop {
	l, err := New(opts)
	if err != nil {
		panic(err)
	}
	return l
}

// Start resets the accumulator, runs the first frame with a zero delta and
// begins ticking. It fails with lifecycle.ErrIllegalTransition if already
// running.
func (l *Loop) Start() error {
	return l.runner.start()
}

// Stop cancels the pending refresh and resets transient state.
// It fails with lifecycle.ErrIllegalTransition if already stopped.
func (l *Loop) Stop() error {
	return l.runner.stop()
}

// NextFrame runs one frame directly, bypassing the refresher:
//
//  1. accumulate deltaTime, capped at MaximumDeltaTime
//  2. Update(deltaTime)
//  3. FixedUpdate(FixedDeltaTime) while a full step is accumulated
//  4. alpha = leftover / FixedDeltaTime
//  5. LateUpdate(deltaTime, alpha)
//  6. Render(alpha)
//
// A negative deltaTime is treated as zero.
func (l *Loop) NextFrame(deltaTime time.Duration) {
	deltaTime = max(deltaTime, 0)

	l.accMu.Lock()
	acc, dropped := accumulate(l.accumulator, deltaTime, l.maximumDeltaTime)
	l.accumulator = acc
	l.accMu.Unlock()

	if dropped > 0 {
		l.logger.Debug("accumulator capped", "dropped", dropped, "maximum", l.maximumDeltaTime)
	}

	if l.update != nil {
		l.update(deltaTime)
	}

	for l.stepDue() {
		if l.fixedUpdate != nil {
			l.fixedUpdate(l.fixedDeltaTime)
		}
		l.consumeStep()
	}

	alpha := l.alpha()

	if l.lateUpdate != nil {
		l.lateUpdate(deltaTime, alpha)
	}
	if l.render != nil {
		l.render(alpha)
	}
}

// FramesPerSecond estimates the frame rate from the most recent tick.
// Returns 0 when stopped or when the last delta was 0.
func (l *Loop) FramesPerSecond() float64 {
	return l.runner.framesPerSecond()
}

// State returns the lifecycle state.
func (l *Loop) State() lifecycle.State {
	return l.runner.state()
}

// LastDeltaTime returns the delta of the most recent tick.
func (l *Loop) LastDeltaTime() time.Duration {
	return l.runner.lastDelta()
}

// Accumulator returns the time carried over to the next frame.
func (l *Loop) Accumulator() time.Duration {
	l.accMu.Lock()
	defer l.accMu.Unlock()
	return l.accumulator
}

// FixedDeltaTime returns the length of one logic step.
func (l *Loop) FixedDeltaTime() time.Duration {
	return l.fixedDeltaTime
}

// MaximumDeltaTime returns the accumulator cap.
func (l *Loop) MaximumDeltaTime() time.Duration {
	return l.maximumDeltaTime
}

func (l *Loop) stepDue() bool {
	l.accMu.Lock()
	defer l.accMu.Unlock()
	return l.accumulator >= l.fixedDeltaTime
}

func (l *Loop) consumeStep() {
	l.accMu.Lock()
	defer l.accMu.Unlock()
	// A callback may have restarted the loop and cleared the accumulator
	if l.accumulator >= l.fixedDeltaTime {
		l.accumulator -= l.fixedDeltaTime
	}
}

func (l *Loop) alpha() float64 {
	l.accMu.Lock()
	defer l.accMu.Unlock()
	alpha := float64(l.accumulator) / float64(l.fixedDeltaTime)
	// Rounding of huge durations must not report a full step
	return min(alpha, maxAlpha)
}

// resetAccumulator starts every run from an empty accumulator.
func (l *Loop) resetAccumulator() {
	l.accMu.Lock()
	l.accumulator = 0
	l.accMu.Unlock()
}

// accumulate returns min(acc+deltaTime, maximum) without overflowing, and the
// amount of time discarded by the cap. acc must not exceed maximum.
func accumulate(acc, deltaTime, maximum time.Duration) (time.Duration, time.Duration) {
	if headroom := maximum - acc; deltaTime > headroom {
		return maximum, deltaTime - headroom
	}
	return acc + deltaTime, 0
}
