package polling

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("polling timed out")
	// ErrAborted is the error carried by a Break verdict without a cause.
	ErrAborted = errors.New("polling aborted")
	// ErrInvalidConfig is returned for unusable polling configurations.
	ErrInvalidConfig = errors.New("invalid polling config")
)

// TimeoutError is returned when the time budget elapsed without a terminal
// verdict. Err holds the error produced by the bound timeout handler.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
	Attempts  int
	Err       error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s: timed out after %v (%d attempts)", e.Operation, e.Timeout, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrTimeout and the handler's error to errors.Is/As.
func (e *TimeoutError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTimeout}
	}
	return []error{ErrTimeout, e.Err}
}

// BreakError is returned when a probe aborted the run.
type BreakError struct {
	Operation string
	Attempts  int
	Err       error
}

func (e *BreakError) Error() string {
	return fmt.Sprintf("%s: aborted after %d attempts: %v", e.Operation, e.Attempts, e.Err)
}

func (e *BreakError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a polling timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
