// Package labels builds the Hetzner Cloud label selectors used to find the
// servers that belong to an observed cluster.
package labels
