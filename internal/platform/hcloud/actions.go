package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/opwatch/internal/workflow"
)

// Actions exposes Hetzner actions as cluster manager commands.
type Actions struct {
	client *RealClient
}

// NewActions creates an Actions adapter.
func NewActions(client *RealClient) *Actions {
	return &Actions{client: client}
}

// ReadCommand implements workflow.CommandClient.
func (a *Actions) ReadCommand(ctx context.Context, id string) (workflow.Command, error) {
	actionID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return workflow.Command{}, fmt.Errorf("invalid action id: %s", id)
	}

	action, _, err := a.client.client.Action.GetByID(ctx, actionID)
	if err != nil {
		return workflow.Command{}, fmt.Errorf("failed to get action %d: %w", actionID, markTransient(err))
	}
	if action == nil {
		return workflow.Command{}, fmt.Errorf("action not found: %d", actionID)
	}

	return workflow.Command{
		ID:            id,
		Name:          action.Command,
		Active:        action.Status == hcloud.ActionStatusRunning,
		Success:       action.Status == hcloud.ActionStatusSuccess,
		ResultMessage: action.ErrorMessage,
	}, nil
}
