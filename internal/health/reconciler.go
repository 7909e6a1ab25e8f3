package health

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/imamik/opwatch/internal/util/async"
	"github.com/imamik/opwatch/internal/util/retry"
)

const tracerName = "github.com/imamik/opwatch/internal/health"

// Reconciler computes cluster health from per-node probes.
// It keeps no state between passes and is safe for concurrent use.
type Reconciler struct {
	structured   StructuredProbe
	legacy       LegacyProbe
	availability AvailabilityChecker
	concurrency  int
	metrics      *Metrics
	retryOpts    []retry.Option
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithStructuredProbe sets the structured health probe. If p also implements
// AvailabilityChecker and no checker was set explicitly, it is used as one.
func WithStructuredProbe(p StructuredProbe) Option {
	return func(r *Reconciler) {
		r.structured = p
	}
}

// WithLegacyProbe sets the legacy connectivity probe.
func WithLegacyProbe(p LegacyProbe) Option {
	return func(r *Reconciler) {
		r.legacy = p
	}
}

// WithAvailabilityChecker sets the capability check for the structured probe.
func WithAvailabilityChecker(a AvailabilityChecker) Option {
	return func(r *Reconciler) {
		r.availability = a
	}
}

// WithConcurrency bounds the number of nodes probed at once. Zero means no bound.
func WithConcurrency(n int) Option {
	return func(r *Reconciler) {
		r.concurrency = n
	}
}

// WithMetrics records verdicts on m.
func WithMetrics(m *Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithRetryOptions configures the retry wrapper used by CheckNode.
func WithRetryOptions(opts ...retry.Option) Option {
	return func(r *Reconciler) {
		r.retryOpts = append(r.retryOpts, opts...)
	}
}

// NewReconciler creates a Reconciler.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{}
	for _, opt := range opts {
		opt(r)
	}
	if r.availability == nil {
		if a, ok := r.structured.(AvailabilityChecker); ok {
			r.availability = a
		}
	}
	return r
}

// SelectStrategy picks the probe variant for one pass over cluster.
func (r *Reconciler) SelectStrategy(ctx context.Context, cluster Cluster) Strategy {
	if r.structured != nil && (r.availability == nil || r.availability.StructuredAvailable(ctx, cluster)) {
		return StrategyStructured
	}
	if r.legacy != nil {
		return StrategyLegacy
	}
	return StrategyNone
}

// Reconcile runs one health pass over cluster. Node probe failures are
// recorded on the affected node and never fail the pass.
func (r *Reconciler) Reconcile(ctx context.Context, cluster Cluster) ClusterHealth {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "health.Reconcile", trace.WithAttributes(
		attribute.String("cluster.name", cluster.Name),
		attribute.Int("cluster.instances", len(cluster.Instances)),
	))
	defer span.End()

	logger := logr.FromContextOrDiscard(ctx).WithValues("cluster", cluster.Name, "crn", cluster.CRN)
	ctx = logr.NewContext(ctx, logger)

	strategy := r.SelectStrategy(ctx, cluster)
	logger.V(1).Info("health check strategy selected", "strategy", strategy.String())

	perInstance := async.Collect(ctx, cluster.Instances, r.concurrency, func(ctx context.Context, in Instance) []NodeHealth {
		return r.observe(ctx, cluster, in, strategy)
	})

	nodes := make([]NodeHealth, 0, len(cluster.Instances))
	for _, observed := range perInstance {
		nodes = append(nodes, observed...)
	}
	resolveInstanceIDs(cluster, nodes)

	v := aggregate(cluster, nodes)
	logger.V(1).Info("cluster health aggregated", "status", string(v.status), "reason", v.reason, "nodes", len(nodes))

	r.metrics.recordPass(cluster.Name, v.status, nodes)
	span.SetAttributes(
		attribute.String("health.strategy", strategy.String()),
		attribute.String("health.status", string(v.status)),
	)

	return ClusterHealth{
		CRN:            cluster.CRN,
		EnvironmentCRN: cluster.EnvironmentCRN,
		Name:           cluster.Name,
		Status:         v.status,
		Nodes:          nodes,
	}
}

// observe produces the node health entries for one instance.
func (r *Reconciler) observe(ctx context.Context, cluster Cluster, in Instance, strategy Strategy) []NodeHealth {
	logger := logr.FromContextOrDiscard(ctx).WithValues("instance", in.Name, "instanceId", in.InstanceID)

	if in.Excluded() {
		logger.V(1).Info("skipping health probe", "lastKnownStatus", string(in.Status))
		return []NodeHealth{excludedNode(in)}
	}

	switch strategy {
	case StrategyStructured:
		res, err := r.structured.NodeHealth(ctx, cluster, in)
		if err != nil {
			logger.Error(err, "unable to check the health of instance")
			r.metrics.recordProbeError(cluster.Name, strategy)
			return []NodeHealth{unreachableNode(in, err)}
		}
		return []NodeHealth{nodeFromCheckResult(in, res)}
	case StrategyLegacy:
		messages, err := r.legacy.ConnCheck(ctx, cluster, in)
		if err != nil {
			logger.Error(err, "unable to check the health of instance")
			r.metrics.recordProbeError(cluster.Name, strategy)
			return []NodeHealth{unreachableNode(in, err)}
		}
		return ParseLegacyMessages(ctx, messages)
	default:
		return []NodeHealth{unreachableNode(in, ErrNoProbe)}
	}
}

func excludedNode(in Instance) NodeHealth {
	return NodeHealth{
		Name:       in.Name,
		InstanceID: in.InstanceID,
		Status:     in.Status,
		Issues:     []string{fmt.Sprintf("Unable to check health as instance is %s", in.Status)},
	}
}

func unreachableNode(in Instance, err error) NodeHealth {
	return NodeHealth{
		Name:       in.Name,
		InstanceID: in.InstanceID,
		Status:     InstanceUnreachable,
		Issues:     []string{err.Error()},
	}
}
