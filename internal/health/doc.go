// Package health turns per-instance health probes into one cluster verdict.
//
// # Reconciliation
//
// [Reconciler.Reconcile] runs one pass over a [Cluster]:
//
//  1. A probe strategy is selected once: the structured health endpoint when
//     it is configured and available, the legacy connectivity check otherwise.
//  2. Every instance is observed independently and in parallel. Excluded
//     instances (terminated, deleted on the provider, or last seen STOPPED
//     or FAILED) are never probed; their last known status is reported.
//     Probe errors become UNREACHABLE nodes and never abort the pass.
//  3. Once all nodes are in, the statuses of non-terminated instances are
//     folded into a single [Status]. Any disagreement between nodes, and any
//     missing observation, yields UNHEALTHY.
//
// # Legacy output
//
// [ParseLegacyMessages] reads the ordered message stream of the legacy
// connectivity check. The tool prints what it checks first and the verdict
// second, so a failed verdict is attributed to the previous distinguished
// message.
//
// Each pass computes its result from scratch; nothing is cached between passes.
package health
