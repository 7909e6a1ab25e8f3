package polling

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels recorded for every run.
const (
	OutcomeFinished  = "finished"
	OutcomeBroken    = "broken"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

// Metrics records polling activity. A nil *Metrics records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the polling collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opwatch",
				Subsystem: "polling",
				Name:      "attempts_total",
				Help:      "Total number of probe attempts by operation and verdict",
			},
			[]string{"operation", "verdict"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "opwatch",
				Subsystem: "polling",
				Name:      "runs_total",
				Help:      "Total number of polling runs by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "opwatch",
				Subsystem: "polling",
				Name:      "run_duration_seconds",
				Help:      "Duration of polling runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.attempts, m.outcomes, m.duration)
	return m
}

func (m *Metrics) recordAttempt(operation string, verdict Kind) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(operation, verdict.String()).Inc()
}

func (m *Metrics) recordRun(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}
