package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/opwatch/internal/polling"
	"github.com/imamik/opwatch/internal/statuscheck"
	"github.com/imamik/opwatch/internal/util/retry"
)

// ErrNodeNotHealthy is wrapped by the timeout error of WaitHealthy.
var ErrNodeNotHealthy = errors.New("node did not become healthy")

// CheckNode probes a single instance and reduces the result to a boolean.
// Errors marked retryable by the probe are retried with backoff before they
// are returned.
func (r *Reconciler) CheckNode(ctx context.Context, cluster Cluster, in Instance) (bool, error) {
	strategy := r.SelectStrategy(ctx, cluster)
	opts := append([]retry.Option{retry.OnlyRetryable()}, r.retryOpts...)

	return retry.Value(ctx, func(ctx context.Context) (bool, error) {
		switch strategy {
		case StrategyStructured:
			res, err := r.structured.NodeHealth(ctx, cluster, in)
			if err != nil {
				return false, err
			}
			return HealthCheckPassing(res), nil
		case StrategyLegacy:
			messages, err := r.legacy.ConnCheck(ctx, cluster, in)
			if err != nil {
				return false, err
			}
			return legacyPassing(ParseLegacyMessages(ctx, messages)), nil
		default:
			return false, retry.Fatal(ErrNoProbe)
		}
	}, opts...)
}

func legacyPassing(nodes []NodeHealth) bool {
	if len(nodes) == 0 {
		return false
	}
	for _, n := range nodes {
		if n.Status != InstanceCreated {
			return false
		}
	}
	return true
}

// WaitHealthy polls CheckNode until the instance is healthy or cfg times out.
func (r *Reconciler) WaitHealthy(ctx context.Context, cluster Cluster, in Instance, cfg polling.Config, opts ...statuscheck.Option) (statuscheck.Outcome, error) {
	task := statuscheck.Task[Instance]{
		Name: "node-health",
		Check: func(ctx context.Context, in Instance) (bool, error) {
			return r.CheckNode(ctx, cluster, in)
		},
		HandleTimeout: func(in Instance) error {
			return fmt.Errorf("%w: instance %s in cluster %s", ErrNodeNotHealthy, in.Name, cluster.Name)
		},
		SuccessMessage: func(in Instance) string {
			return fmt.Sprintf("Instance %s of cluster %s is healthy.", in.Name, cluster.Name)
		},
	}
	return statuscheck.Run(ctx, task, in, cfg, opts...)
}
