// Package retry provides a bounded, exponential-backoff retry wrapper for a
// single remote call.
//
// The wrapper is deliberately separate from the polling engine in
// internal/polling: a probe that talks to a flaky endpoint can wrap its one
// call with [Value] and still be driven by the outer poll-until-terminal loop.
// Errors marked with [Fatal] are never retried; with [OnlyRetryable] only
// errors marked with [Retryable] are.
package retry
