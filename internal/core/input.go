package core

import "strings"

// Action is a semantic input intent, abstracted from physical key presses.
type Action int

const (
	ActionNone   Action = iota
	ActionUp            // W, Up arrow
	ActionDown          // S, Down arrow
	ActionLeft          // A, Left arrow
	ActionRight         // D, Right arrow
	ActionKick          // Space - impulse to the scene
	ActionPause         // P - stop/start the scheduler
	ActionRestart       // R - reset the scene
	ActionQuit          // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionKick:
		return "Kick"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is the set of actions collected between two frames. Scenes
// read it in Update, once per frame, never in FixedUpdate. The zero value
// is empty and frames are copied by value.
type InputFrame uint16

// NewInputFrame returns the set of the given actions.
func NewInputFrame(actions ...Action) InputFrame {
	var f InputFrame
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as triggered. ActionNone and unknown actions are ignored.
func (f *InputFrame) Set(a Action) {
	if a > ActionNone && a <= ActionQuit {
		*f |= 1 << a
	}
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return a > ActionNone && a <= ActionQuit && f&(1<<a) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f == 0
}

// Clear forgets every action.
func (f *InputFrame) Clear() {
	*f = 0
}

// String lists the triggered actions, e.g. "Kick+Left".
func (f InputFrame) String() string {
	if f.Empty() {
		return "None"
	}
	var b strings.Builder
	for a := ActionUp; a <= ActionQuit; a++ {
		if !f.Has(a) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('+')
		}
		b.WriteString(a.String())
	}
	return b.String()
}
