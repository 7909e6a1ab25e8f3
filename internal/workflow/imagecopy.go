package workflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/imamik/opwatch/internal/statuscheck"
	"github.com/imamik/opwatch/internal/util/retry"
)

// ImageStatus is the state of an image copy.
type ImageStatus string

const (
	ImageCreateInProgress ImageStatus = "IN_PROGRESS"
	ImageCreateFinished   ImageStatus = "CREATE_FINISHED"
	ImageCreateFailed     ImageStatus = "CREATE_FAILED"
)

// ImageCopyEventType is the notification type of image copy progress.
const ImageCopyEventType = "IMAGE_COPY_STATE"

// ImageStatusResult is one observation of an image copy.
type ImageStatusResult struct {
	Status   ImageStatus
	Progress int
}

// Stack describes the deployment an image is copied for.
type Stack struct {
	ID      int64
	Name    string
	Owner   string
	Account string
	Cloud   string
	Region  string
	Status  string
	ImageID string
}

// ImageChecker observes an image copy for a stack.
type ImageChecker interface {
	CheckImage(ctx context.Context, stack Stack) (ImageStatusResult, error)
}

// ImageCopyTask builds the status check for an image copy. Every observation,
// including the final one, is sent as an IMAGE_COPY_STATE notification
// carrying the progress value.
func ImageCopyTask(checker ImageChecker, sender NotificationSender) statuscheck.Task[Stack] {
	return statuscheck.Task[Stack]{
		Name: "image-copy",
		Check: func(ctx context.Context, stack Stack) (bool, error) {
			res, err := checker.CheckImage(ctx, stack)
			if err != nil {
				return false, fmt.Errorf("failed to check image for stack %s: %w", stack.Name, err)
			}
			send(ctx, sender, imageCopyNotification(res, stack))

			switch res.Status {
			case ImageCreateFailed:
				return false, retry.Fatal(ErrImageCopyFailed)
			case ImageCreateFinished:
				return true, nil
			default:
				return false, nil
			}
		},
		HandleTimeout: func(Stack) error {
			return ErrImageCopyTimedOut
		},
		SuccessMessage: func(Stack) string {
			return "Image copy operation finished with success state."
		},
	}
}

func imageCopyNotification(res ImageStatusResult, stack Stack) Notification {
	return Notification{
		EventType: ImageCopyEventType,
		Timestamp: time.Now(),
		Message:   strconv.Itoa(res.Progress),
		Owner:     stack.Owner,
		Account:   stack.Account,
		Cloud:     stack.Cloud,
		Region:    stack.Region,
		StackID:   stack.ID,
		StackName: stack.Name,
		Status:    stack.Status,
	}
}
