package handlers

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/imamik/opwatch/internal/statuscheck"
	"github.com/imamik/opwatch/internal/workflow"
)

// ImageWaitOptions are the flags of the image wait command.
type ImageWaitOptions struct {
	ConfigPath string
	ImageID    int64
	ActionID   int64
	StackName  string
}

// ImageWait polls an image until it is available. Progress notifications and
// the terminal event are written to the logger.
func ImageWait(ctx context.Context, out io.Writer, opts ImageWaitOptions) error {
	if opts.ImageID <= 0 {
		return fmt.Errorf("image id is required")
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	sender := workflow.LogSender{}
	checker := newImageChecker(newCloudClient(cfg), opts.ActionID)
	stack := workflow.Stack{
		Name:    opts.StackName,
		ImageID: strconv.FormatInt(opts.ImageID, 10),
	}

	outcome, err := statuscheck.Run(ctx, workflow.ImageCopyTask(checker, sender), stack, cfg.Profiles.ImageCopy.Polling(),
		statuscheck.WithNotifier(workflow.TaskNotifier{Sender: sender, EventType: workflow.ImageCopyEventType}))
	if err != nil {
		return fmt.Errorf("image %d: %w", opts.ImageID, err)
	}

	_, _ = fmt.Fprintln(out, outcome.Message)
	return nil
}
