// Package hcloud adapts the Hetzner Cloud API to the observation core.
//
//   - Inventory lists the servers of a cluster by label and converts them to
//     health.Instance values, remembering their addresses for the probes.
//   - ImageChecker reports the copy state of an image for the image copy task.
//   - Workloads implements workflow.WorkloadClient on top of server deletion
//     so a cluster can be torn down and polled until no server is left.
//   - Actions implements workflow.CommandClient on top of Hetzner actions.
//
// Errors that indicate a locked or temporarily unavailable resource are
// marked with retry.Retryable; everything else is returned as is.
package hcloud
