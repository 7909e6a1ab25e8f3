package workflow

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/opwatch/internal/polling"
)

// WorkloadStatus is the lifecycle status of a workload cluster.
type WorkloadStatus string

const (
	WorkloadAvailable        WorkloadStatus = "AVAILABLE"
	WorkloadDeleteInProgress WorkloadStatus = "DELETE_IN_PROGRESS"
	WorkloadDeleteFailed     WorkloadStatus = "DELETE_FAILED"
	WorkloadDeleteCompleted  WorkloadStatus = "DELETE_COMPLETED"
)

// Workload is one workload cluster of an environment.
type Workload struct {
	CRN    string
	Name   string
	Status WorkloadStatus
}

// Environment identifies the owner of a set of workloads.
type Environment struct {
	CRN  string
	Name string
}

// WorkloadClient lists and deletes the workloads of an environment.
type WorkloadClient interface {
	ListWorkloads(ctx context.Context, environmentCRN string) ([]Workload, error)
	DeleteMultiple(ctx context.Context, crns []string, force bool) error
}

// WorkloadDeleter removes every workload of an environment and waits until
// the platform reports none left.
type WorkloadDeleter struct {
	client   WorkloadClient
	pollOpts []polling.Option
}

// NewWorkloadDeleter creates a WorkloadDeleter. opts are passed to every poll.
func NewWorkloadDeleter(client WorkloadClient, opts ...polling.Option) *WorkloadDeleter {
	return &WorkloadDeleter{client: client, pollOpts: opts}
}

// DeleteForEnvironment requests forced deletion of all workloads of env and
// polls until the list is empty. A workload in DELETE_FAILED aborts the wait
// with ErrDeleteFailed.
func (d *WorkloadDeleter) DeleteForEnvironment(ctx context.Context, cfg polling.Config, env Environment) error {
	logger := logr.FromContextOrDiscard(ctx).WithValues("environment", env.Name)

	workloads, err := d.client.ListWorkloads(ctx, env.CRN)
	if err != nil {
		return fmt.Errorf("failed to list workloads for environment %s: %w", env.Name, err)
	}
	logger.Info("found workloads for environment", "count", len(workloads))
	if len(workloads) == 0 {
		logger.Info("no workloads found for environment")
		return nil
	}

	crns := make([]string, 0, len(workloads))
	for _, w := range workloads {
		crns = append(crns, w.CRN)
	}
	logger.V(1).Info("requesting deletion", "crns", crns)
	if err := d.client.DeleteMultiple(ctx, crns, true); err != nil {
		return fmt.Errorf("failed to delete workloads for environment %s: %w", env.Name, err)
	}

	logger.V(1).Info("waiting for workload deletion")
	opts := append([]polling.Option{polling.WithName("workload-deletion")}, d.pollOpts...)
	if _, err := polling.Run(ctx, d.deletionProbe(env), cfg, opts...); err != nil {
		return fmt.Errorf("workload deletion for environment %s: %w", env.Name, err)
	}

	logger.Info("workload deletion finished")
	return nil
}

func (d *WorkloadDeleter) deletionProbe(env Environment) polling.Probe[struct{}] {
	return func(ctx context.Context) (polling.AttemptResult[struct{}], error) {
		remaining, err := d.client.ListWorkloads(ctx, env.CRN)
		if err != nil {
			return polling.AttemptResult[struct{}]{}, err
		}
		return deletionVerdict(remaining), nil
	}
}

func deletionVerdict(remaining []Workload) polling.AttemptResult[struct{}] {
	if len(remaining) == 0 {
		return polling.Finish(struct{}{})
	}
	for _, w := range remaining {
		if w.Status == WorkloadDeleteFailed {
			return polling.Break[struct{}](ErrDeleteFailed)
		}
	}
	return polling.Continue[struct{}]()
}
