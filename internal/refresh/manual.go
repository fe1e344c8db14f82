package refresh

import (
	"sync"
	"time"

	"github.com/vovakirdan/frameloop/internal/core"
)

// Manual is a deterministic Refresher driven by explicit Advance calls.
// It owns a FakeClock; schedulers sharing that clock see exactly the
// simulated time between refreshes.
type Manual struct {
	clock *core.FakeClock

	mu      sync.Mutex
	next    Handle
	order   []Handle
	pending map[Handle]Callback
}

type registration struct {
	handle Handle
	cb     Callback
}

// NewManual creates a manual refresher whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{
		clock:   core.NewFakeClock(start),
		pending: make(map[Handle]Callback),
	}
}

// Clock returns the fake clock advanced by this refresher.
func (m *Manual) Clock() *core.FakeClock {
	return m.clock
}

// Request queues cb until the next Advance.
func (m *Manual) Request(cb Callback) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	h := m.next
	m.pending[h] = cb
	m.order = append(m.order, h)
	return h
}

// Cancel drops a queued registration.
func (m *Manual) Cancel(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, h)
}

// Pending returns the number of queued registrations.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d and fires, in registration order,
// every callback queued before the call. Callbacks registered while firing
// wait for the next Advance. Returns the number of callbacks fired.
func (m *Manual) Advance(d time.Duration) int {
	m.clock.Advance(d)
	now := m.clock.Now()

	m.mu.Lock()
	due := make([]registration, 0, len(m.order))
	for _, h := range m.order {
		if cb, ok := m.pending[h]; ok {
			due = append(due, registration{handle: h, cb: cb})
		}
	}
	m.order = m.order[:0]
	m.mu.Unlock()

	fired := 0
	for _, r := range due {
		// A callback earlier in this batch may have cancelled r
		m.mu.Lock()
		_, ok := m.pending[r.handle]
		delete(m.pending, r.handle)
		m.mu.Unlock()
		if !ok {
			continue
		}
		r.cb(now)
		fired++
	}
	return fired
}
