package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/imamik/opwatch/internal/workflow"
)

// TeardownOptions are the flags of the teardown command.
type TeardownOptions struct {
	ConfigPath string
	Cluster    string
}

// Teardown deletes all servers of a cluster and waits until none remain.
func Teardown(ctx context.Context, out io.Writer, opts TeardownOptions) error {
	if opts.Cluster == "" {
		return fmt.Errorf("cluster name is required")
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	logr.FromContextOrDiscard(ctx).Info("tearing down cluster", "cluster", opts.Cluster)

	deleter := workflow.NewWorkloadDeleter(newWorkloadClient(newCloudClient(cfg)))
	env := workflow.Environment{CRN: opts.Cluster, Name: opts.Cluster}
	if err := deleter.DeleteForEnvironment(ctx, cfg.Profiles.Deletion.Polling(), env); err != nil {
		return fmt.Errorf("teardown of cluster %s failed: %w", opts.Cluster, err)
	}

	_, _ = fmt.Fprintf(out, "Cluster %s has no servers left.\n", opts.Cluster)
	return nil
}
