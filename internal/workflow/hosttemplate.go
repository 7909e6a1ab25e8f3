package workflow

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/opwatch/internal/statuscheck"
	"github.com/imamik/opwatch/internal/util/retry"
)

// Command is the state of an asynchronous cluster manager command.
type Command struct {
	ID            string
	Name          string
	Active        bool
	Success       bool
	ResultMessage string
}

// CommandClient reads cluster manager commands.
type CommandClient interface {
	ReadCommand(ctx context.Context, id string) (Command, error)
}

// CommandRef points at a running command on a cluster.
type CommandRef struct {
	Cluster   string
	CommandID string
}

// ApplyHostTemplateTask builds the status check for an "Apply host template"
// command. An active command is pending; a finished unsuccessful one fails
// the task with ErrCommandFailed.
func ApplyHostTemplateTask(client CommandClient) statuscheck.Task[CommandRef] {
	return CommandTask(client, "apply-host-template", "Apply host template",
		ErrHostTemplateTimedOut,
		"Cluster manager applied host template finished with success result.")
}

// CommandTask builds the status check of any cluster manager command.
// timeoutErr is returned when the command is still active at the deadline.
func CommandTask(client CommandClient, name, commandName string, timeoutErr error, successMessage string) statuscheck.Task[CommandRef] {
	return statuscheck.Task[CommandRef]{
		Name: name,
		Check: func(ctx context.Context, ref CommandRef) (bool, error) {
			cmd, err := client.ReadCommand(ctx, ref.CommandID)
			if err != nil {
				return false, fmt.Errorf("failed to read command %s: %w", ref.CommandID, err)
			}
			logger := logr.FromContextOrDiscard(ctx)
			switch {
			case cmd.Active:
				logger.V(1).Info("command is still running", "command", commandName, "id", cmd.ID, "cluster", ref.Cluster)
				return false, nil
			case cmd.Success:
				return true, nil
			default:
				return false, retry.Fatal(fmt.Errorf("%w: %s (id %s): %s", ErrCommandFailed, commandName, ref.CommandID, cmd.ResultMessage))
			}
		},
		HandleTimeout: func(CommandRef) error {
			return timeoutErr
		},
		SuccessMessage: func(CommandRef) string {
			return successMessage
		},
	}
}
