package polling

import (
	"fmt"
	"time"
)

// Config bounds a polling run. It is immutable once built and belongs to the
// operation that created it.
type Config struct {
	// Timeout is the total time budget. Attempts start only while the
	// elapsed time is below it.
	Timeout time.Duration
	// SleepInterval is the pause after every non-terminal attempt.
	SleepInterval time.Duration
	// StopOnProbeError aborts the run on the first probe error instead of
	// treating the error as a non-terminal attempt.
	StopOnProbeError bool
}

// Validate checks the configuration. A Timeout below SleepInterval is valid
// and produces a fast timeout.
func (c Config) Validate() error {
	if c.SleepInterval <= 0 {
		return fmt.Errorf("%w: sleep interval must be positive, got %v", ErrInvalidConfig, c.SleepInterval)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %v", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// MaxAttempts is the approximate number of attempts the configuration allows.
// Sleep drift is not compensated, so the real count may be lower.
func (c Config) MaxAttempts() int {
	if c.SleepInterval <= 0 || c.Timeout <= 0 {
		return 0
	}
	n := int(c.Timeout / c.SleepInterval)
	if c.Timeout%c.SleepInterval != 0 {
		n++
	}
	return n
}
