package health

import "github.com/prometheus/client_golang/prometheus"

// Metrics records reconciliation results. A nil *Metrics records nothing.
type Metrics struct {
	verdicts    *prometheus.CounterVec
	nodes       *prometheus.GaugeVec
	probeErrors *prometheus.CounterVec
}

// NewMetrics creates the health collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opwatch",
				Subsystem: "health",
				Name:      "reconcile_total",
				Help:      "Total number of reconciliation passes by cluster and verdict",
			},
			[]string{"cluster", "status"},
		),
		nodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "opwatch",
				Subsystem: "health",
				Name:      "nodes",
				Help:      "Number of nodes by status in the last reconciliation pass",
			},
			[]string{"cluster", "status"},
		),
		probeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opwatch",
				Subsystem: "health",
				Name:      "probe_errors_total",
				Help:      "Total number of failed node probes by strategy",
			},
			[]string{"cluster", "strategy"},
		),
	}
	reg.MustRegister(m.verdicts, m.nodes, m.probeErrors)
	return m
}

func (m *Metrics) recordPass(cluster string, status Status, nodes []NodeHealth) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(cluster, string(status)).Inc()

	counts := make(map[InstanceStatus]int)
	for _, n := range nodes {
		counts[n.Status]++
	}
	m.nodes.DeletePartialMatch(prometheus.Labels{"cluster": cluster})
	for s, c := range counts {
		m.nodes.WithLabelValues(cluster, string(s)).Set(float64(c))
	}
}

func (m *Metrics) recordProbeError(cluster string, strategy Strategy) {
	if m == nil {
		return
	}
	m.probeErrors.WithLabelValues(cluster, strategy.String()).Inc()
}
