package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imamik/opwatch/internal/config"
	"github.com/imamik/opwatch/internal/health"
	"github.com/imamik/opwatch/internal/polling"
	"github.com/imamik/opwatch/internal/statuscheck"
)

// ErrUnknownNode is returned when --wait-node names no instance of the cluster.
var ErrUnknownNode = errors.New("node is not part of the cluster")

// HealthOptions are the flags of the health command.
type HealthOptions struct {
	ConfigPath  string
	Cluster     string
	Format      Format
	Watch       bool
	MetricsAddr string
	// WaitNode waits until the named instance passes its health check.
	WaitNode string
}

// Health handles the health command.
func Health(ctx context.Context, out io.Writer, opts HealthOptions) error {
	if opts.Cluster == "" {
		return fmt.Errorf("cluster name is required")
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	inv := newInventory(newCloudClient(cfg))
	reg := prometheus.NewRegistry()
	rec, err := newReconciler(ctx, cfg, inv, reg)
	if err != nil {
		return err
	}

	switch {
	case opts.WaitNode != "":
		return waitNode(ctx, out, cfg, inv, rec, reg, opts)
	case opts.Watch:
		return watchHealth(ctx, out, cfg, inv, rec, reg, opts)
	default:
		return showHealth(ctx, out, inv, rec, opts)
	}
}

// showHealth runs one reconciliation pass and prints the verdict.
func showHealth(ctx context.Context, out io.Writer, inv clusterInventory, rec *health.Reconciler, opts HealthOptions) error {
	cluster, err := inv.Cluster(ctx, opts.Cluster)
	if err != nil {
		return err
	}
	return render(out, rec.Reconcile(ctx, cluster), opts.Format)
}

// watchHealth reconciles at the node health interval until ctx ends. The
// metrics endpoint, when enabled, runs alongside in the same group.
func watchHealth(ctx context.Context, out io.Writer, cfg *config.Config, inv clusterInventory, rec *health.Reconciler, reg *prometheus.Registry, opts HealthOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	g.Add(func() error {
		return watchLoop(ctx, out, cfg.Profiles.NodeHealth.Sleep, inv, rec, opts)
	}, func(error) {
		cancel()
	})

	if opts.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              opts.MetricsAddr,
			Handler:           metricsHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Add(func() error {
			logr.FromContextOrDiscard(ctx).Info("serving metrics", "addr", opts.MetricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		}, func(error) {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		})
	}

	err := g.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func watchLoop(ctx context.Context, out io.Writer, interval time.Duration, inv clusterInventory, rec *health.Reconciler, opts HealthOptions) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	clearScreen := opts.Format == FormatTable && interactive(out)
	for {
		if clearScreen {
			_, _ = fmt.Fprint(out, "\033[H\033[2J")
		}
		if err := showHealth(ctx, out, inv, rec, opts); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logr.FromContextOrDiscard(ctx).Error(err, "health pass failed", "cluster", opts.Cluster)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func metricsHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

// waitNode polls one node until its health check passes.
func waitNode(ctx context.Context, out io.Writer, cfg *config.Config, inv clusterInventory, rec *health.Reconciler, reg prometheus.Registerer, opts HealthOptions) error {
	cluster, err := inv.Cluster(ctx, opts.Cluster)
	if err != nil {
		return err
	}

	var target *health.Instance
	for i := range cluster.Instances {
		if cluster.Instances[i].Name == opts.WaitNode {
			target = &cluster.Instances[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, opts.WaitNode)
	}

	outcome, err := rec.WaitHealthy(ctx, cluster, *target, cfg.Profiles.NodeHealth.Polling(),
		statuscheck.WithPollingOptions(polling.WithMetrics(polling.NewMetrics(reg))))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, outcome.Message)
	return nil
}
