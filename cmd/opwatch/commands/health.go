package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/opwatch/cmd/opwatch/handlers"
)

// Health returns the command for reconciling the node health of a cluster.
//
// Flags:
//
//	--cluster: Cluster name, matched against the "cluster" server label (required)
//	--config, -c: Path to the opwatch configuration file
//	--watch, -w: Reconcile repeatedly at the node health sleep interval
//	--metrics-addr: Serve Prometheus metrics while watching
//	--wait-node: Poll one node until it is healthy instead of printing the cluster
//	--json / --yaml: Machine readable output
func Health() *cobra.Command {
	var opts handlers.HealthOptions
	var jsonOutput, yamlOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show the node health of a cluster",
		Long: `Probe every server of a cluster and aggregate the results into one
cluster status.

The structured Talos probe is used when a talosconfig is configured. The
SSH connectivity check is used as a fallback when an SSH key is configured.

Examples:
  # Show cluster health
  opwatch health --cluster prod

  # Watch cluster health and expose metrics
  opwatch health --cluster prod --watch --metrics-addr :9090

  # Wait for a replaced node to come up
  opwatch health --cluster prod --wait-node prod-control-plane-2

  # Get health status as JSON
  opwatch health --cluster prod --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Format = outputFormat(jsonOutput, yamlOutput)
			return handlers.Health(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Cluster, "cluster", "", "Cluster name")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Continuously watch cluster health")
	cmd.Flags().StringVar(&opts.WaitNode, "wait-node", "", "Wait until the named node passes its health check")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "Address to serve /metrics on while watching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	cmd.MarkFlagsMutuallyExclusive("watch", "wait-node")
	_ = cmd.MarkFlagRequired("cluster")

	return cmd
}

func outputFormat(jsonOutput, yamlOutput bool) handlers.Format {
	switch {
	case jsonOutput:
		return handlers.FormatJSON
	case yamlOutput:
		return handlers.FormatYAML
	default:
		return handlers.FormatTable
	}
}
