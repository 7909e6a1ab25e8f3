// Package workflow contains the long-running operations that are observed
// through the polling engine: bulk workload deletion for an environment,
// image copy and applying a host template on the cluster manager.
//
// Each workflow talks to the platform through a small interface so the
// Hetzner adapters in internal/platform and test doubles are interchangeable.
package workflow
