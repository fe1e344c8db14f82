package loop

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/lifecycle"
	"github.com/vovakirdan/frameloop/internal/refresh"
)

// runner owns the lifecycle and the self-rescheduling tick shared by Lite
// and Loop. Each variant plugs in its own frame function.
//
// mu is never held while frame runs, so callbacks may call Stop, Start or
// FramesPerSecond on the scheduler that is invoking them.
type runner struct {
	kind      string
	refresher refresh.Refresher
	clock     core.Clock
	logger    *log.Logger
	fsm       *lifecycle.Machine
	frame     func(deltaTime time.Duration)
	onStart   func() // called with mu held

	mu            sync.Mutex
	gen           uint64         // identifies the most recent registration
	pending       refresh.Handle // zero when nothing is registered
	lastTimestamp time.Time
	lastDeltaTime time.Duration
}

func newRunner(kind string, refresher refresh.Refresher, clock core.Clock, logger *log.Logger) *runner {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if refresher == nil {
		refresher = refresh.NewTimer(refresh.DefaultRate, clock)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &runner{
		kind:      kind,
		refresher: refresher,
		clock:     clock,
		logger:    logger,
		fsm:       lifecycle.NewLifecycle(),
	}
}

func (r *runner) start() error {
	r.mu.Lock()
	if err := r.fsm.Send(lifecycle.Start); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("loop: start %s: %w", r.kind, err)
	}
	if r.onStart != nil {
		r.onStart()
	}
	r.gen++
	gen := r.gen
	r.lastTimestamp = r.clock.Now()
	r.lastDeltaTime = 0
	r.mu.Unlock()

	r.logger.Debug("scheduler started", "kind", r.kind)

	// First frame runs synchronously with a zero delta
	r.frame(0)
	r.schedule(gen)
	return nil
}

func (r *runner) stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.fsm.Send(lifecycle.Stop); err != nil {
		return fmt.Errorf("loop: stop %s: %w", r.kind, err)
	}
	if r.pending != 0 {
		r.refresher.Cancel(r.pending)
		r.pending = 0
	}
	// Invalidates any tick already in flight
	r.gen++
	r.lastTimestamp = time.Time{}
	r.lastDeltaTime = 0

	r.logger.Debug("scheduler stopped", "kind", r.kind)
	return nil
}

// schedule registers the next tick unless the scheduler was stopped or
// restarted since generation gen was issued.
func (r *runner) schedule(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.fsm.Matches(lifecycle.Running) || r.gen != gen {
		return
	}
	r.gen++
	next := r.gen
	r.pending = r.refresher.Request(func(timestamp time.Time) {
		r.tick(next, timestamp)
	})
}

func (r *runner) tick(gen uint64, timestamp time.Time) {
	r.mu.Lock()
	if !r.fsm.Matches(lifecycle.Running) || r.gen != gen {
		// Stray registration that Cancel could not stop in time
		r.mu.Unlock()
		return
	}
	r.pending = 0

	// Refresher timestamps may precede the clock reading taken at start
	deltaTime := max(timestamp.Sub(r.lastTimestamp), 0)
	r.lastDeltaTime = deltaTime
	r.lastTimestamp = timestamp
	r.mu.Unlock()

	r.frame(deltaTime)
	r.schedule(gen)
}

func (r *runner) framesPerSecond() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.fsm.Matches(lifecycle.Running) || r.lastDeltaTime == 0 {
		return 0
	}
	return float64(time.Second) / float64(r.lastDeltaTime)
}

func (r *runner) state() lifecycle.State {
	return r.fsm.State()
}

func (r *runner) lastDelta() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastDeltaTime
}
