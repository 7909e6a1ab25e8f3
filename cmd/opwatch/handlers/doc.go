// Package handlers implements the business logic of CLI commands.
//
// Handlers load the configuration, build the Hetzner, Talos and SSH adapters
// and run the polling workflows. Constructors are package variables so tests
// can substitute fakes.
package handlers
