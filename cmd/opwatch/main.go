// Package main is the entry point for the opwatch CLI.
//
// opwatch observes long-running cluster operations on Hetzner Cloud: node
// health of a cluster, image creation, asynchronous actions and cluster
// teardown.
//
// For detailed usage information, run:
//
//	opwatch --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/opwatch/cmd/opwatch/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
