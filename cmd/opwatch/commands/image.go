package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/opwatch/cmd/opwatch/handlers"
)

// Image returns the image command group.
func Image() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Observe image creation",
	}
	cmd.AddCommand(imageWait())
	return cmd
}

func imageWait() *cobra.Command {
	var opts handlers.ImageWaitOptions

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until an image is available",
		Long: `Poll an image until it is available. Progress is reported on every
observation; a failed image stops the wait immediately.

Examples:
  opwatch image wait --image-id 4711 --action-id 1234`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ImageWait(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.ImageID, "image-id", 0, "ID of the image to wait for")
	cmd.Flags().Int64Var(&opts.ActionID, "action-id", 0, "ID of the action creating the image, for progress reporting")
	cmd.Flags().StringVar(&opts.StackName, "stack", "", "Name of the stack the image is created for")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	_ = cmd.MarkFlagRequired("image-id")

	return cmd
}
