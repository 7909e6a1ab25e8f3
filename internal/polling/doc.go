// Package polling drives a long-running remote operation to a terminal state.
//
// A caller supplies a [Probe] that performs one observation and classifies it
// as an [AttemptResult]: keep going ([Continue]), done with a value
// ([Finish]), or abort with an error ([Break]). [Run] invokes the probe in a
// bounded loop, sleeping between attempts, until a terminal verdict is
// returned or the configured timeout elapses.
//
// # Semantics
//
//   - The loop runs while the elapsed time is below Config.Timeout. A timeout
//     shorter than the first attempt (including zero) performs no attempts.
//   - A probe error aborts immediately when Config.StopOnProbeError is set and
//     is otherwise logged and treated as Continue.
//   - On timeout the bound handler (see [WithTimeoutHandler]) is called
//     exactly once and its error is wrapped in a [*TimeoutError].
//   - Context cancellation is checked at every loop boundary and while
//     sleeping.
//
// Each Run owns its state; independent operations can poll concurrently
// without coordination.
package polling
