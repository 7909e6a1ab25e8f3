package hcloud

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/opwatch/internal/util/labels"
	"github.com/imamik/opwatch/internal/util/retry"
	"github.com/imamik/opwatch/internal/workflow"
)

// Workloads treats the servers of a cluster as the workloads of an
// environment. The environment CRN is the cluster label value and each
// server id is a workload CRN.
type Workloads struct {
	client *RealClient

	mu      sync.Mutex
	actions map[int64]*hcloud.Action
	failed  map[int64]string
}

// NewWorkloads creates a Workloads adapter.
func NewWorkloads(client *RealClient) *Workloads {
	return &Workloads{
		client:  client,
		actions: map[int64]*hcloud.Action{},
		failed:  map[int64]string{},
	}
}

// ListWorkloads implements workflow.WorkloadClient.
func (w *Workloads) ListWorkloads(ctx context.Context, environmentCRN string) ([]workflow.Workload, error) {
	servers, err := w.client.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labels.ForCluster(environmentCRN).String()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", markTransient(err))
	}

	workloads := make([]workflow.Workload, 0, len(servers))
	for _, s := range servers {
		status, err := w.workloadStatus(ctx, s)
		if err != nil {
			return nil, err
		}
		workloads = append(workloads, workflow.Workload{
			CRN:    formatID(s.ID),
			Name:   s.Name,
			Status: status,
		})
	}
	return workloads, nil
}

func (w *Workloads) workloadStatus(ctx context.Context, s *hcloud.Server) (workflow.WorkloadStatus, error) {
	w.mu.Lock()
	_, failed := w.failed[s.ID]
	action := w.actions[s.ID]
	w.mu.Unlock()

	if failed {
		return workflow.WorkloadDeleteFailed, nil
	}
	if action != nil {
		current, _, err := w.client.client.Action.GetByID(ctx, action.ID)
		if err != nil {
			return "", fmt.Errorf("failed to get delete action of server %s: %w", s.Name, markTransient(err))
		}
		if current != nil && current.Status == hcloud.ActionStatusError {
			w.markFailed(s.ID, current.ErrorMessage)
			return workflow.WorkloadDeleteFailed, nil
		}
		return workflow.WorkloadDeleteInProgress, nil
	}
	if s.Status == hcloud.ServerStatusDeleting {
		return workflow.WorkloadDeleteInProgress, nil
	}
	return workflow.WorkloadAvailable, nil
}

// DeleteMultiple implements workflow.WorkloadClient. Locked servers are
// retried. With force set, individual failures are recorded and surface as
// DELETE_FAILED on the next listing instead of being returned.
func (w *Workloads) DeleteMultiple(ctx context.Context, crns []string, force bool) error {
	logger := logr.FromContextOrDiscard(ctx)

	var errs []error
	for _, crn := range crns {
		id, err := strconv.ParseInt(crn, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid server id: %s", crn))
			continue
		}

		result, err := retry.Value(ctx, func(ctx context.Context) (*hcloud.ServerDeleteResult, error) {
			res, _, err := w.client.client.Server.DeleteWithResult(ctx, &hcloud.Server{ID: id})
			return res, markTransient(err)
		},
			retry.OnlyRetryable(),
			retry.WithMaxRetries(w.client.retry.Retries()),
			retry.WithInitialDelay(w.client.retry.InitialDelay),
		)
		switch {
		case IsNotFound(err):
			logger.V(1).Info("server already gone", "server", id)
		case err != nil:
			w.markFailed(id, err.Error())
			errs = append(errs, fmt.Errorf("failed to delete server %d: %w", id, err))
		default:
			if result != nil && result.Action != nil {
				w.mu.Lock()
				w.actions[id] = result.Action
				w.mu.Unlock()
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if force {
		logger.Info("some servers could not be deleted", "error", errors.Join(errs...).Error())
		return nil
	}
	return errors.Join(errs...)
}

func (w *Workloads) markFailed(id int64, reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failed[id] = reason
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
