// Package ssh runs the legacy connectivity check on cluster nodes.
//
// The check is an external tool invoked over SSH on every node. Its output is
// an ordered list of diagnostic lines which the health package parses into
// per-node verdicts. Connection failures are reported as retryable so a
// single unreachable node is probed again before it is declared UNREACHABLE.
package ssh
