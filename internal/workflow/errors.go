package workflow

import "errors"

var (
	// ErrDeleteFailed is reported when a workload ends up in DELETE_FAILED.
	ErrDeleteFailed = errors.New("found a cluster with delete failed status")
	// ErrImageCopyFailed is reported when the image copy ends in CREATE_FAILED.
	ErrImageCopyFailed = errors.New("image copy operation finished with failed status")
	// ErrImageCopyTimedOut is reported when the image copy runs out of time.
	ErrImageCopyTimedOut = errors.New("operation timed out: image copy operation failed")
	// ErrCommandFailed is reported when a cluster manager command fails.
	ErrCommandFailed = errors.New("cluster manager command failed")
	// ErrHostTemplateTimedOut is reported when applying a host template runs out of time.
	ErrHostTemplateTimedOut = errors.New("operation timed out: failed to apply host template")
	// ErrCommandTimedOut is reported when a generic command wait runs out of time.
	ErrCommandTimedOut = errors.New("operation timed out: cluster manager command did not finish")
)
