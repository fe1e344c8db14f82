// Package tui provides the Bubble Tea integration for frameloop: a
// refresher that turns frame requests into tea.Tick messages, the scene
// player, the scene menu and the SSH server.
package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/frameloop/internal/refresh"
)

// FrameMsg is delivered by the tick command of one registration.
type FrameMsg struct {
	Handle refresh.Handle
	Time   time.Time
}

// handles is shared by all TeaRefreshers so a FrameMsg can never match a
// registration of a refresher it was not issued by.
var handles atomic.Uint64

// TeaRefresher is a refresh.Refresher for Bubble Tea programs. Requests are
// queued until the model returns Cmd() from Update; the resulting FrameMsg
// must be passed back to Dispatch. Callbacks therefore run on the Bubble Tea
// goroutine, between Update and View.
type TeaRefresher struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[refresh.Handle]refresh.Callback
	queued  []refresh.Handle
}

// NewTeaRefresher creates a refresher ticking at rate Hz.
func NewTeaRefresher(rate int) *TeaRefresher {
	return &TeaRefresher{
		interval: refresh.Interval(rate),
		pending:  make(map[refresh.Handle]refresh.Callback),
	}
}

// Request queues cb for the next tick.
func (r *TeaRefresher) Request(cb refresh.Callback) refresh.Handle {
	h := refresh.Handle(handles.Add(1))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[h] = cb
	r.queued = append(r.queued, h)
	return h
}

// Cancel drops a registration. Its tick, if already armed, is ignored by
// Dispatch.
func (r *TeaRefresher) Cancel(h refresh.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, h)
}

// Cmd arms one tea.Tick per registration queued since the last call.
// Returns nil when nothing is queued.
func (r *TeaRefresher) Cmd() tea.Cmd {
	r.mu.Lock()
	queued := r.queued
	r.queued = nil
	r.mu.Unlock()

	if len(queued) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(queued))
	for _, h := range queued {
		cmds = append(cmds, tea.Tick(r.interval, func(t time.Time) tea.Msg {
			return FrameMsg{Handle: h, Time: t}
		}))
	}
	return tea.Batch(cmds...)
}

// Dispatch runs the callback registered for msg.Handle, if it is still
// pending. Reports whether a callback ran.
func (r *TeaRefresher) Dispatch(msg FrameMsg) bool {
	r.mu.Lock()
	cb, ok := r.pending[msg.Handle]
	delete(r.pending, msg.Handle)
	r.mu.Unlock()

	if !ok {
		return false
	}
	cb(msg.Time)
	return true
}

// Pending returns the number of registrations not yet dispatched.
func (r *TeaRefresher) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Interval returns the tick interval.
func (r *TeaRefresher) Interval() time.Duration {
	return r.interval
}
