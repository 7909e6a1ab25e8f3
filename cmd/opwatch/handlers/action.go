package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/imamik/opwatch/internal/statuscheck"
	"github.com/imamik/opwatch/internal/workflow"
)

// ActionWaitOptions are the flags of the action wait command.
type ActionWaitOptions struct {
	ConfigPath string
	ActionID   string
	Cluster    string
}

// ActionWait polls a Hetzner action until it is no longer running.
func ActionWait(ctx context.Context, out io.Writer, opts ActionWaitOptions) error {
	if opts.ActionID == "" {
		return fmt.Errorf("action id is required")
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	task := workflow.CommandTask(newCommandClient(newCloudClient(cfg)),
		"action", "Action "+opts.ActionID,
		workflow.ErrCommandTimedOut,
		fmt.Sprintf("Action %s finished with success result.", opts.ActionID))
	ref := workflow.CommandRef{Cluster: opts.Cluster, CommandID: opts.ActionID}

	outcome, err := statuscheck.Run(ctx, task, ref, cfg.Profiles.HostTemplate.Polling())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, outcome.Message)
	return nil
}
