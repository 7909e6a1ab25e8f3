// Package statuscheck binds a boolean status check to the polling engine.
//
// A [Task] is a struct of closures: Check observes the operation once,
// HandleTimeout produces the task-specific error when the time budget runs
// out, and SuccessMessage renders the human-readable result after success.
// [Run] maps true to a Finish verdict and false to Continue, and tracks the
// task through the Pending → Succeeded | TimedOut | Failed state machine.
package statuscheck
