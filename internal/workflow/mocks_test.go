package workflow

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockWorkloadClient struct {
	mock.Mock
}

func (m *mockWorkloadClient) ListWorkloads(ctx context.Context, environmentCRN string) ([]Workload, error) {
	args := m.Called(ctx, environmentCRN)
	return args.Get(0).([]Workload), args.Error(1)
}

func (m *mockWorkloadClient) DeleteMultiple(ctx context.Context, crns []string, force bool) error {
	args := m.Called(ctx, crns, force)
	return args.Error(0)
}

type mockImageChecker struct {
	mock.Mock
}

func (m *mockImageChecker) CheckImage(ctx context.Context, stack Stack) (ImageStatusResult, error) {
	args := m.Called(ctx, stack)
	return args.Get(0).(ImageStatusResult), args.Error(1)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type mockCommandClient struct {
	mock.Mock
}

func (m *mockCommandClient) ReadCommand(ctx context.Context, id string) (Command, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Command), args.Error(1)
}
