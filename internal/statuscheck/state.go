package statuscheck

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of one task execution.
type State int

const (
	StatePending State = iota
	StateSucceeded
	StateTimedOut
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePending:
		return "Pending"
	case StateSucceeded:
		return "Succeeded"
	case StateTimedOut:
		return "TimedOut"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether s is a final state.
func (s State) Terminal() bool {
	return s != StatePending
}

// ErrAlreadyTerminal is returned when a finished execution is moved again.
var ErrAlreadyTerminal = errors.New("execution already in a terminal state")

// Execution records the state of a single task run. Terminal states are final.
type Execution struct {
	mu      sync.Mutex
	task    string
	state   State
	message string
	err     error
}

// NewExecution returns a pending execution for the named task.
func NewExecution(task string) *Execution {
	return &Execution{task: task}
}

// Succeed moves the execution to StateSucceeded.
func (e *Execution) Succeed(message string) error {
	return e.transition(StateSucceeded, message, nil)
}

// TimeOut moves the execution to StateTimedOut.
func (e *Execution) TimeOut(err error) error {
	return e.transition(StateTimedOut, "", err)
}

// Fail moves the execution to StateFailed.
func (e *Execution) Fail(err error) error {
	return e.transition(StateFailed, "", err)
}

func (e *Execution) transition(to State, message string, err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Terminal() {
		return fmt.Errorf("%w: %s is %s, cannot move to %s", ErrAlreadyTerminal, e.task, e.state, to)
	}
	e.state = to
	e.message = message
	e.err = err
	return nil
}

// State returns the current state.
func (e *Execution) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Outcome returns a snapshot of the execution.
func (e *Execution) Outcome() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Outcome{Task: e.task, State: e.state, Message: e.message, Err: e.err}
}

// Outcome is the externally visible result of a task execution.
type Outcome struct {
	Task    string
	State   State
	Message string
	Err     error
}
