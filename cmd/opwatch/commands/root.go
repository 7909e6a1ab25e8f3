// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/opwatch/cmd/opwatch/handlers"
)

// Root returns the root command for the opwatch CLI.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "opwatch",
		Short:         "Watch long-running cluster operations on Hetzner Cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := handlers.WithLogger(cmd.Context(), verbosity)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "Log verbosity (0 = info, 1 = per-attempt debug)")

	cmd.AddCommand(Health())
	cmd.AddCommand(Image())
	cmd.AddCommand(Action())
	cmd.AddCommand(Teardown())
	cmd.AddCommand(Version())

	return cmd
}
