// Package lifecycle provides a small table-driven finite state machine used
// by the frame schedulers to decide whether start and stop are legal.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// State is a node of the machine.
type State string

// Event triggers a transition between states.
type Event string

// Scheduler lifecycle states and events.
const (
	Stopped State = "stopped"
	Running State = "running"

	Start Event = "start"
	Stop  Event = "stop"
)

// String returns the state name.
func (s State) String() string {
	return string(s)
}

// String returns the event name.
func (e Event) String() string {
	return string(e)
}

// ErrIllegalTransition is matched by every TransitionError.
var ErrIllegalTransition = errors.New("lifecycle: illegal transition")

// TransitionError reports an event that has no transition from the current state.
type TransitionError struct {
	State State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("lifecycle: cannot %s while %s", e.Event, e.State)
}

// Is makes errors.Is(err, ErrIllegalTransition) work.
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// Schema maps a state and an event to the next state.
// A missing entry means the event is illegal in that state.
type Schema map[State]map[Event]State

// SchedulerSchema is the two-state schema shared by all frame schedulers.
var SchedulerSchema = Schema{
	Stopped: {Start: Running},
	Running: {Stop: Stopped},
}

// Machine is a finite state machine driven by a Schema.
// It is safe for concurrent use.
type Machine struct {
	mu     sync.RWMutex
	schema Schema
	state  State
}

// New creates a machine in the initial state.
func New(schema Schema, initial State) *Machine {
	return &Machine{
		schema: schema,
		state:  initial,
	}
}

// NewLifecycle creates a scheduler machine in the Stopped state.
func NewLifecycle() *Machine {
	return New(SchedulerSchema, Stopped)
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Matches reports whether the current state is one of states.
func (m *Machine) Matches(states ...State) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Contains(states, m.state)
}

// Can reports whether event is legal in the current state.
func (m *Machine) Can(event Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.schema[m.state][event]
	return ok
}

// Send applies event. An illegal event leaves the state unchanged and
// returns a *TransitionError.
func (m *Machine) Send(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, ok := m.schema[m.state][event]
	if !ok {
		return &TransitionError{State: m.state, Event: event}
	}
	m.state = next
	return nil
}
