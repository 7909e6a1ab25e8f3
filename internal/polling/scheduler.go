package polling

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"
)

const tracerName = "github.com/imamik/opwatch/internal/polling"

// Option configures a single Run.
type Option func(*runOptions)

type runOptions struct {
	name      string
	clock     clock.Clock
	onTimeout func() error
	metrics   *Metrics
}

// WithName labels the run in logs, traces and metrics.
func WithName(name string) Option {
	return func(o *runOptions) {
		o.name = name
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(o *runOptions) {
		o.clock = c
	}
}

// WithTimeoutHandler binds the function invoked once when the run times out.
// Its error becomes the cause of the returned *TimeoutError.
func WithTimeoutHandler(fn func() error) Option {
	return func(o *runOptions) {
		o.onTimeout = fn
	}
}

// WithMetrics records attempts and outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(o *runOptions) {
		o.metrics = m
	}
}

// Run polls probe until it returns a terminal verdict, the timeout elapses,
// or ctx is cancelled. Only one probe call is in flight at any time.
func Run[T any](ctx context.Context, probe Probe[T], cfg Config, opts ...Option) (T, error) {
	var zero T

	o := &runOptions{
		name:  "operation",
		clock: clock.RealClock{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := cfg.Validate(); err != nil {
		return zero, err
	}
	if probe == nil {
		return zero, fmt.Errorf("%w: probe is nil", ErrInvalidConfig)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "polling.Run", trace.WithAttributes(
		attribute.String("polling.operation", o.name),
		attribute.String("polling.timeout", cfg.Timeout.String()),
		attribute.String("polling.sleep_interval", cfg.SleepInterval.String()),
	))
	defer span.End()

	logger := logr.FromContextOrDiscard(ctx).WithValues("operation", o.name)
	start := o.clock.Now()
	attempts := 0

	done := func(outcome string, err error) {
		o.metrics.recordRun(o.name, outcome, o.clock.Since(start))
		span.SetAttributes(attribute.Int("polling.attempts", attempts), attribute.String("polling.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
	}

	for o.clock.Since(start) < cfg.Timeout {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("%s: polling cancelled after %d attempts: %w", o.name, attempts, err)
			done(OutcomeCancelled, err)
			return zero, err
		}

		attempts++
		raw, probeErr := probe(ctx)
		if probeErr != nil {
			logger.V(1).Info("probe returned an error", "attempt", attempts, "error", probeErr.Error(),
				"stopOnProbeError", cfg.StopOnProbeError)
		}
		result := classify(raw, probeErr, cfg.StopOnProbeError)
		o.metrics.recordAttempt(o.name, result.Kind())
		logger.V(1).Info("attempt classified", "attempt", attempts, "verdict", result.Kind().String())

		switch result.Kind() {
		case KindFinish:
			logger.V(1).Info("operation finished", "attempts", attempts, "elapsed", o.clock.Since(start).String())
			done(OutcomeFinished, nil)
			return result.Value(), nil
		case KindBreak:
			err := &BreakError{Operation: o.name, Attempts: attempts, Err: result.Err()}
			logger.Info("operation aborted", "attempts", attempts, "error", result.Err().Error())
			done(OutcomeBroken, err)
			return zero, err
		}

		if err := sleep(ctx, o.clock, cfg.SleepInterval); err != nil {
			err = fmt.Errorf("%s: polling cancelled after %d attempts: %w", o.name, attempts, err)
			done(OutcomeCancelled, err)
			return zero, err
		}
	}

	var handlerErr error
	if o.onTimeout != nil {
		handlerErr = o.onTimeout()
	}
	err := &TimeoutError{Operation: o.name, Timeout: cfg.Timeout, Attempts: attempts, Err: handlerErr}
	logger.Info("operation timed out", "attempts", attempts, "timeout", cfg.Timeout.String())
	done(OutcomeTimeout, err)
	return zero, err
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, c clock.Clock, d time.Duration) error {
	timer := c.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C():
		return nil
	}
}
