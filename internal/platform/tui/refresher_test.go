package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func TestTeaRefresherDispatch(t *testing.T) {
	r := NewTeaRefresher(1000)

	var fired []time.Time
	h := r.Request(func(ts time.Time) { fired = append(fired, ts) })
	if h == 0 {
		t.Fatal("Request() returned the zero handle")
	}

	msgs := runCmd(r.Cmd())
	if len(msgs) != 1 {
		t.Fatalf("Cmd() produced %d messages, expected 1", len(msgs))
	}
	frame, ok := msgs[0].(FrameMsg)
	if !ok {
		t.Fatalf("Cmd() produced %T, expected FrameMsg", msgs[0])
	}
	if frame.Handle != h {
		t.Errorf("FrameMsg.Handle = %d, expected %d", frame.Handle, h)
	}

	if !r.Dispatch(frame) {
		t.Error("Dispatch() of a pending handle should run it")
	}
	if len(fired) != 1 || !fired[0].Equal(frame.Time) {
		t.Errorf("callback got %v, expected [%v]", fired, frame.Time)
	}

	// Registrations fire once
	if r.Dispatch(frame) {
		t.Error("second Dispatch() of the same frame should be ignored")
	}
	if r.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", r.Pending())
	}
}

func TestTeaRefresherCancel(t *testing.T) {
	r := NewTeaRefresher(1000)

	ran := map[string]bool{}
	keep := r.Request(func(time.Time) { ran["keep"] = true })
	drop := r.Request(func(time.Time) { ran["drop"] = true })
	r.Cancel(drop)

	for _, msg := range runCmd(r.Cmd()) {
		r.Dispatch(msg.(FrameMsg))
	}

	if !ran["keep"] || ran["drop"] {
		t.Errorf("ran = %v, expected only keep", ran)
	}
	if keep == drop {
		t.Error("handles must be unique")
	}
}

func TestTeaRefresherCmdOnlyArmsNewRequests(t *testing.T) {
	r := NewTeaRefresher(1000)
	if r.Cmd() != nil {
		t.Error("Cmd() with nothing queued should be nil")
	}

	r.Request(func(time.Time) {})
	if r.Cmd() == nil {
		t.Fatal("Cmd() should arm the queued request")
	}
	if r.Cmd() != nil {
		t.Error("Cmd() must not arm the same request twice")
	}
}

func TestTeaRefresherHandlesAreGlobal(t *testing.T) {
	a := NewTeaRefresher(60)
	b := NewTeaRefresher(60)

	ha := a.Request(func(time.Time) {})
	ranB := false
	b.Request(func(time.Time) { ranB = true })

	// A frame issued for a must never run b's callback
	if b.Dispatch(FrameMsg{Handle: ha, Time: time.Now()}) || ranB {
		t.Error("refresher dispatched a handle it did not issue")
	}
}

func TestTeaRefresherInterval(t *testing.T) {
	if got := NewTeaRefresher(50).Interval(); got != 20*time.Millisecond {
		t.Errorf("Interval() = %v, expected 20ms", got)
	}
	if got := NewTeaRefresher(0).Interval(); got != time.Second/60 {
		t.Errorf("Interval() with rate 0 = %v, expected the default rate", got)
	}
}
