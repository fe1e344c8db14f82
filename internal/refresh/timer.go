package refresh

import (
	"sync"
	"time"

	"github.com/vovakirdan/frameloop/internal/core"
)

// Timer is a wall-clock Refresher backed by time.AfterFunc.
// Each registration fires once, one interval after it was requested, with
// the clock reading taken at fire time. Callbacks run on timer goroutines.
type Timer struct {
	interval time.Duration
	clock    core.Clock

	mu      sync.Mutex
	next    Handle
	pending map[Handle]*time.Timer
}

// NewTimer creates a timer refresher firing at rate Hz.
// A nil clock uses the system clock.
func NewTimer(rate int, clock core.Clock) *Timer {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Timer{
		interval: Interval(rate),
		clock:    clock,
		pending:  make(map[Handle]*time.Timer),
	}
}

// Interval returns the time between refreshes.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Request schedules cb for the next refresh.
func (t *Timer) Request(cb Callback) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	h := t.next
	t.pending[h] = time.AfterFunc(t.interval, func() {
		t.mu.Lock()
		_, ok := t.pending[h]
		delete(t.pending, h)
		t.mu.Unlock()

		// Lost the race against Cancel
		if !ok {
			return
		}
		cb(t.clock.Now())
	})
	return h
}

// Cancel stops a pending registration.
func (t *Timer) Cancel(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.pending[h]; ok {
		timer.Stop()
		delete(t.pending, h)
	}
}

// Pending returns the number of outstanding registrations.
func (t *Timer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
