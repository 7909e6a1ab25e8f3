package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/opwatch/internal/workflow"
)

// ImageChecker reports the state of an image that is being created, for
// example a snapshot copied for a stack.
type ImageChecker struct {
	client *RealClient
	// ActionID optionally names the action creating the image. When set its
	// progress is reported while the image is still being created.
	ActionID int64
}

// NewImageChecker creates an ImageChecker.
func NewImageChecker(client *RealClient, actionID int64) *ImageChecker {
	return &ImageChecker{client: client, ActionID: actionID}
}

// CheckImage implements workflow.ImageChecker for stack.ImageID.
func (c *ImageChecker) CheckImage(ctx context.Context, stack workflow.Stack) (workflow.ImageStatusResult, error) {
	id, err := strconv.ParseInt(stack.ImageID, 10, 64)
	if err != nil {
		return workflow.ImageStatusResult{}, fmt.Errorf("invalid image id: %s", stack.ImageID)
	}

	image, _, err := c.client.client.Image.GetByID(ctx, id)
	if err != nil {
		return workflow.ImageStatusResult{}, fmt.Errorf("failed to get image %d: %w", id, markTransient(err))
	}
	if image == nil {
		return workflow.ImageStatusResult{Status: workflow.ImageCreateFailed}, nil
	}

	switch image.Status {
	case hcloud.ImageStatusAvailable:
		return workflow.ImageStatusResult{Status: workflow.ImageCreateFinished, Progress: 100}, nil
	case hcloud.ImageStatusCreating:
		return c.creating(ctx)
	default:
		return workflow.ImageStatusResult{Status: workflow.ImageCreateFailed}, nil
	}
}

func (c *ImageChecker) creating(ctx context.Context) (workflow.ImageStatusResult, error) {
	res := workflow.ImageStatusResult{Status: workflow.ImageCreateInProgress}
	if c.ActionID == 0 {
		return res, nil
	}

	action, _, err := c.client.client.Action.GetByID(ctx, c.ActionID)
	if err != nil {
		return res, fmt.Errorf("failed to get action %d: %w", c.ActionID, markTransient(err))
	}
	if action == nil {
		return res, nil
	}
	if action.Status == hcloud.ActionStatusError {
		res.Status = workflow.ImageCreateFailed
	}
	res.Progress = action.Progress
	return res, nil
}
