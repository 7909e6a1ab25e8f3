package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/opwatch/cmd/opwatch/handlers"
)

// Action returns the action command group.
func Action() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Observe asynchronous Hetzner actions",
	}
	cmd.AddCommand(actionWait())
	return cmd
}

func actionWait() *cobra.Command {
	var opts handlers.ActionWaitOptions

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until an action finishes",
		Long: `Poll an action until it is no longer running. An action that ends in
error fails the wait with its error message.

Examples:
  opwatch action wait --action-id 1234 --cluster prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ActionWait(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ActionID, "action-id", "", "ID of the action to wait for")
	cmd.Flags().StringVar(&opts.Cluster, "cluster", "", "Cluster the action belongs to (for logging)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	_ = cmd.MarkFlagRequired("action-id")

	return cmd
}
