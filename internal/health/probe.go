package health

import (
	"context"
	"errors"
)

// ErrNoProbe is reported for nodes when no probe strategy is configured.
var ErrNoProbe = errors.New("no health probe configured")

// CheckMessage is one entry of a structured health check result. Code is an
// HTTP-style status code; messages without a code carry no verdict.
type CheckMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Code    *int   `json:"code,omitempty"`
}

// CheckResult is the structured response of a node health endpoint.
type CheckResult struct {
	Messages []CheckMessage `json:"messages"`
}

// StructuredProbe queries a node's structured health endpoint.
type StructuredProbe interface {
	NodeHealth(ctx context.Context, cluster Cluster, instance Instance) (*CheckResult, error)
}

// LegacyProbe runs the legacy connectivity check on a node and returns its
// ordered diagnostic messages.
type LegacyProbe interface {
	ConnCheck(ctx context.Context, cluster Cluster, instance Instance) ([]Message, error)
}

// AvailabilityChecker reports whether the structured endpoint can be used
// for a cluster. A StructuredProbe may implement it itself.
type AvailabilityChecker interface {
	StructuredAvailable(ctx context.Context, cluster Cluster) bool
}

// Strategy is the probe variant selected for a reconciliation pass.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyStructured
	StrategyLegacy
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StrategyStructured:
		return "structured"
	case StrategyLegacy:
		return "legacy"
	default:
		return "none"
	}
}
