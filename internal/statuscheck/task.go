package statuscheck

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/opwatch/internal/polling"
	"github.com/imamik/opwatch/internal/util/retry"
)

// Task describes one observable long-running operation over a context value C.
type Task[C any] struct {
	// Name identifies the task in logs, metrics and notifications.
	Name string

	// Check observes the operation once. true means done, false means not yet.
	// An error is handled according to polling.Config.StopOnProbeError,
	// except errors marked with retry.Fatal, which always fail the task.
	Check func(ctx context.Context, c C) (bool, error)

	// HandleTimeout returns the task-specific error reported on timeout.
	HandleTimeout func(c C) error

	// SuccessMessage renders the result after success. It must be pure.
	SuccessMessage func(c C) string
}

// Validate checks that the task can be run.
func (t Task[C]) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("task name is required"))
	}
	if t.Check == nil {
		errs = append(errs, errors.New("check function is required"))
	}
	if t.HandleTimeout == nil {
		errs = append(errs, errors.New("timeout handler is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid status check task %q: %w", t.Name, errors.Join(errs...))
	}
	return nil
}

// Event is delivered to a Notifier when a task reaches a terminal state.
type Event struct {
	Task    string
	State   State
	Message string
	Err     error
}

// Notifier receives terminal task events.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Option configures Run.
type Option func(*settings)

type settings struct {
	notifier Notifier
	polling  []polling.Option
}

// WithNotifier delivers the terminal event to n.
func WithNotifier(n Notifier) Option {
	return func(s *settings) {
		s.notifier = n
	}
}

// WithPollingOptions forwards options to the polling engine.
func WithPollingOptions(opts ...polling.Option) Option {
	return func(s *settings) {
		s.polling = append(s.polling, opts...)
	}
}

// Run polls task.Check until it reports true, fails, or times out.
// Once a valid task has run, the returned Outcome is terminal.
func Run[C any](ctx context.Context, task Task[C], c C, cfg polling.Config, opts ...Option) (Outcome, error) {
	if err := task.Validate(); err != nil {
		return Outcome{Task: task.Name, State: StatePending}, err
	}

	s := &settings{}
	for _, opt := range opts {
		opt(s)
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("task", task.Name)
	exec := NewExecution(task.Name)

	probe := func(ctx context.Context) (polling.AttemptResult[struct{}], error) {
		done, err := task.Check(ctx, c)
		if retry.IsFatal(err) {
			return polling.Break[struct{}](err), nil
		}
		if err != nil {
			return polling.Continue[struct{}](), err
		}
		if done {
			return polling.Finish(struct{}{}), nil
		}
		return polling.Continue[struct{}](), nil
	}

	pollOpts := append([]polling.Option{
		polling.WithName(task.Name),
		polling.WithTimeoutHandler(func() error { return task.HandleTimeout(c) }),
	}, s.polling...)

	_, err := polling.Run(ctx, probe, cfg, pollOpts...)
	switch {
	case err == nil:
		msg := ""
		if task.SuccessMessage != nil {
			msg = task.SuccessMessage(c)
		}
		_ = exec.Succeed(msg)
		logger.Info("status check succeeded", "message", msg)
	case polling.IsTimeout(err):
		_ = exec.TimeOut(err)
		logger.Info("status check timed out", "error", err.Error())
	default:
		_ = exec.Fail(err)
		logger.Info("status check failed", "error", err.Error())
	}

	outcome := exec.Outcome()
	if s.notifier != nil {
		s.notifier.Notify(ctx, Event{Task: outcome.Task, State: outcome.State, Message: outcome.Message, Err: outcome.Err})
	}
	return outcome, err
}
