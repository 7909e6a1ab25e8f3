package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/opwatch/internal/polling"
	"github.com/imamik/opwatch/internal/statuscheck"
)

var testStack = Stack{ID: 7, Name: "stack-7", Owner: "alice", Cloud: "HETZNER", Region: "fsn1", Status: "CREATE_IN_PROGRESS"}

func TestImageCopyTask_NotifiesEveryObservation(t *testing.T) {
	t.Parallel()
	checker := new(mockImageChecker)
	sender := new(mockSender)

	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{Status: ImageCreateInProgress, Progress: 10}, nil).Once()
	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{Status: ImageCreateInProgress, Progress: 60}, nil).Once()
	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{Status: ImageCreateFinished, Progress: 100}, nil).Once()

	var progress []string
	sender.On("Send", mock.Anything, mock.MatchedBy(func(n Notification) bool {
		return n.EventType == ImageCopyEventType && n.StackName == "stack-7" && n.StackID == 7
	})).Run(func(args mock.Arguments) {
		progress = append(progress, args.Get(1).(Notification).Message)
	}).Return(nil)

	outcome, err := statuscheck.Run(testContext(t), ImageCopyTask(checker, sender), testStack, fastConfig())

	require.NoError(t, err)
	assert.Equal(t, statuscheck.StateSucceeded, outcome.State)
	assert.Equal(t, "Image copy operation finished with success state.", outcome.Message)
	assert.Equal(t, []string{"10", "60", "100"}, progress)
	checker.AssertExpectations(t)
}

func TestImageCopyTask_CreateFailed(t *testing.T) {
	t.Parallel()
	checker := new(mockImageChecker)
	sender := new(mockSender)

	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{Status: ImageCreateFailed, Progress: 40}, nil).Once()
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	outcome, err := statuscheck.Run(testContext(t), ImageCopyTask(checker, sender), testStack, fastConfig())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImageCopyFailed)
	assert.Equal(t, statuscheck.StateFailed, outcome.State)
	checker.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestImageCopyTask_TimesOut(t *testing.T) {
	t.Parallel()
	checker := new(mockImageChecker)
	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{Status: ImageCreateInProgress}, nil)

	cfg := polling.Config{Timeout: 20 * time.Millisecond, SleepInterval: 2 * time.Millisecond}
	outcome, err := statuscheck.Run(testContext(t), ImageCopyTask(checker, nil), testStack, cfg)

	require.Error(t, err)
	assert.True(t, polling.IsTimeout(err))
	assert.ErrorIs(t, err, ErrImageCopyTimedOut)
	assert.Equal(t, statuscheck.StateTimedOut, outcome.State)
}

func TestImageCopyTask_SendFailureDoesNotFailCheck(t *testing.T) {
	t.Parallel()
	checker := new(mockImageChecker)
	sender := new(mockSender)

	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{Status: ImageCreateFinished, Progress: 100}, nil).Once()
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("queue full")).Once()

	done, err := ImageCopyTask(checker, sender).Check(testContext(t), testStack)

	require.NoError(t, err)
	assert.True(t, done)
}

func TestImageCopyTask_CheckerError(t *testing.T) {
	t.Parallel()
	checker := new(mockImageChecker)
	checker.On("CheckImage", mock.Anything, testStack).Return(ImageStatusResult{}, errors.New("api unavailable")).Once()

	done, err := ImageCopyTask(checker, nil).Check(testContext(t), testStack)

	require.Error(t, err)
	assert.False(t, done)
	assert.Contains(t, err.Error(), "failed to check image for stack stack-7")
}
