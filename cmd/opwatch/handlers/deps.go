package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/opwatch/internal/config"
	"github.com/imamik/opwatch/internal/health"
	"github.com/imamik/opwatch/internal/platform/hcloud"
	"github.com/imamik/opwatch/internal/platform/ssh"
	"github.com/imamik/opwatch/internal/platform/talos"
	"github.com/imamik/opwatch/internal/workflow"
)

// clusterInventory resolves a cluster name into its instances.
type clusterInventory interface {
	Cluster(ctx context.Context, name string) (health.Cluster, error)
	Address(ctx context.Context, instance health.Instance) (string, error)
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.Load

	newCloudClient = func(cfg *config.Config) *hcloud.RealClient {
		return hcloud.NewRealClient(cfg.HCloudToken, hcloud.WithRetry(cfg.Retry))
	}

	newInventory = func(c *hcloud.RealClient) clusterInventory {
		return hcloud.NewInventory(c)
	}

	newImageChecker = func(c *hcloud.RealClient, actionID int64) workflow.ImageChecker {
		return hcloud.NewImageChecker(c, actionID)
	}

	newCommandClient = func(c *hcloud.RealClient) workflow.CommandClient {
		return hcloud.NewActions(c)
	}

	newWorkloadClient = func(c *hcloud.RealClient) workflow.WorkloadClient {
		return hcloud.NewWorkloads(c)
	}

	newReconciler = buildReconciler
)

// buildReconciler wires the probes that cfg enables. Nodes are reached at the
// addresses reported by inv.
func buildReconciler(ctx context.Context, cfg *config.Config, inv clusterInventory, reg prometheus.Registerer) (*health.Reconciler, error) {
	logger := logr.FromContextOrDiscard(ctx)
	opts := []health.Option{
		health.WithConcurrency(cfg.Concurrency),
		health.WithRetryOptions(cfg.Retry.Options()...),
		health.WithMetrics(health.NewMetrics(reg)),
	}

	if cfg.Talosconfig != "" {
		tc, err := talos.LoadConfig(cfg.Talosconfig)
		if err != nil {
			return nil, err
		}
		opts = append(opts, health.WithStructuredProbe(talos.NewProbe(tc, talos.WithResolver(inv.Address))))
		logger.V(1).Info("structured probe enabled", "talosconfig", cfg.Talosconfig)
	}

	if cfg.SSH.KeyFile != "" {
		// #nosec G304
		key, err := os.ReadFile(cfg.SSH.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key: %w", err)
		}
		client, err := ssh.NewClient(&ssh.Config{
			Port:       cfg.SSH.Port,
			User:       cfg.SSH.User,
			PrivateKey: key,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, health.WithLegacyProbe(ssh.NewConnCheckProbe(client, cfg.SSH.Command, inv.Address)))
		logger.V(1).Info("legacy probe enabled", "user", cfg.SSH.User, "command", cfg.SSH.Command)
	}

	return health.NewReconciler(opts...), nil
}
