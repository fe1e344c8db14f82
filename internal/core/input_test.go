package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionKick) || !f.Empty() {
		t.Fatal("zero InputFrame should be empty")
	}

	f.Set(ActionKick)
	f.Set(ActionLeft)
	if !f.Has(ActionKick) || !f.Has(ActionLeft) || f.Has(ActionUp) {
		t.Errorf("frame = %v", f)
	}

	f.Clear()
	if !f.Empty() {
		t.Errorf("Clear() left %v", f)
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionNone:  "None",
		ActionKick:  "Kick",
		ActionPause: "Pause",
		Action(99):  "Unknown",
	}
	for a, expected := range tests {
		if got := a.String(); got != expected {
			t.Errorf("Action(%d).String() = %q, expected %q", a, got, expected)
		}
	}
}

func TestInputFrameString(t *testing.T) {
	tests := []struct {
		frame    InputFrame
		expected string
	}{
		{NewInputFrame(), "None"},
		{NewInputFrame(ActionKick), "Kick"},
		{NewInputFrame(ActionKick, ActionUp), "Up+Kick"},
	}
	for _, tt := range tests {
		if got := tt.frame.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}

func TestInputFrameIgnoresUnknownActions(t *testing.T) {
	f := NewInputFrame(ActionNone, Action(99))
	if !f.Empty() {
		t.Errorf("frame = %v, expected empty", f)
	}
	if f.Has(Action(99)) {
		t.Error("Has() of an unknown action should be false")
	}
}
