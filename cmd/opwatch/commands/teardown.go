package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/opwatch/cmd/opwatch/handlers"
)

// Teardown returns the command deleting every server of a cluster.
func Teardown() *cobra.Command {
	var opts handlers.TeardownOptions

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Delete all servers of a cluster and wait until they are gone",
		Long: `Delete every server labelled with the cluster name, then poll until
none remain. A server whose deletion fails stops the wait.

Examples:
  opwatch teardown --cluster staging`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Teardown(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Cluster, "cluster", "", "Cluster name")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	_ = cmd.MarkFlagRequired("cluster")

	return cmd
}
