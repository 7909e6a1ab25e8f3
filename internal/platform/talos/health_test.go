package talos

import (
	"context"
	"errors"
	"testing"

	"github.com/siderolabs/talos/pkg/machinery/api/common"
	"github.com/siderolabs/talos/pkg/machinery/api/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/imamik/opwatch/internal/health"
	"github.com/imamik/opwatch/internal/util/ptr"
	"github.com/imamik/opwatch/internal/util/retry"
)

type fakeServiceClient struct {
	resp   *machine.ServiceListResponse
	err    error
	closed bool
}

func (f *fakeServiceClient) ServiceList(context.Context, ...grpc.CallOption) (*machine.ServiceListResponse, error) {
	return f.resp, f.err
}

func (f *fakeServiceClient) Close() error {
	f.closed = true
	return nil
}

func service(id, state string, h *machine.ServiceHealth) *machine.ServiceInfo {
	return &machine.ServiceInfo{Id: id, State: state, Health: h}
}

func probeWith(fake *fakeServiceClient, dialed *string) *Probe {
	return NewProbe(nil,
		WithDialer(func(_ context.Context, endpoint string) (ServiceClient, error) {
			if dialed != nil {
				*dialed = endpoint
			}
			return fake, nil
		}),
		WithResolver(func(_ context.Context, in health.Instance) (string, error) {
			return "10.0.0." + in.InstanceID, nil
		}),
	)
}

func TestProbe_NodeHealth(t *testing.T) {
	t.Parallel()
	fake := &fakeServiceClient{resp: &machine.ServiceListResponse{
		Messages: []*machine.ServiceList{{
			Metadata: &common.Metadata{Hostname: "cp-1"},
			Services: []*machine.ServiceInfo{
				service("apid", "Running", &machine.ServiceHealth{Healthy: true}),
				service("etcd", "Running", &machine.ServiceHealth{Healthy: true}),
				service("machined", "Running", nil),
			},
		}},
	}}
	var dialed string

	res, err := probeWith(fake, &dialed).NodeHealth(context.Background(), health.Cluster{}, health.Instance{Name: "cp-1", InstanceID: "1"})

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", dialed)
	assert.True(t, fake.closed)
	require.Len(t, res.Messages, 3)
	assert.Nil(t, res.Messages[2].Code)
	assert.True(t, health.HealthCheckPassing(res))
}

func TestProbe_NodeHealthUnhealthyService(t *testing.T) {
	t.Parallel()
	fake := &fakeServiceClient{resp: &machine.ServiceListResponse{
		Messages: []*machine.ServiceList{{
			Services: []*machine.ServiceInfo{
				service("apid", "Running", &machine.ServiceHealth{Healthy: true}),
				service("etcd", "Failed", &machine.ServiceHealth{Healthy: false, LastMessage: "connection refused"}),
			},
		}},
	}}

	res, err := probeWith(fake, nil).NodeHealth(context.Background(), health.Cluster{}, health.Instance{Name: "cp-1", InstanceID: "1"})

	require.NoError(t, err)
	assert.False(t, health.HealthCheckPassing(res))
	assert.Equal(t, "etcd is Failed: connection refused", res.Messages[1].Message)
	require.NotNil(t, res.Messages[1].Code)
	assert.Equal(t, 503, *res.Messages[1].Code)
}

func TestProbe_NodeHealthMetadataError(t *testing.T) {
	t.Parallel()
	fake := &fakeServiceClient{resp: &machine.ServiceListResponse{
		Messages: []*machine.ServiceList{{
			Metadata: &common.Metadata{Hostname: "cp-2", Error: "node is rebooting"},
		}},
	}}

	res, err := probeWith(fake, nil).NodeHealth(context.Background(), health.Cluster{}, health.Instance{Name: "cp-2", InstanceID: "2"})

	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, health.CheckMessage{Name: "cp-2", Message: "node is rebooting", Code: ptr.To(503)}, res.Messages[0])
}

func TestProbe_NodeHealthErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "unavailable", err: status.Error(codes.Unavailable, "connection refused"), retryable: true},
		{name: "deadline", err: status.Error(codes.DeadlineExceeded, "timeout"), retryable: true},
		{name: "permission denied", err: status.Error(codes.PermissionDenied, "bad cert"), retryable: false},
		{name: "plain", err: errors.New("boom"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fake := &fakeServiceClient{err: tt.err}

			_, err := probeWith(fake, nil).NodeHealth(context.Background(), health.Cluster{}, health.Instance{Name: "cp-1", InstanceID: "1"})

			require.Error(t, err)
			assert.Equal(t, tt.retryable, retry.IsRetryable(err))
			assert.True(t, fake.closed)
		})
	}
}

func TestProbe_Availability(t *testing.T) {
	t.Parallel()

	assert.False(t, NewProbe(nil).StructuredAvailable(context.Background(), health.Cluster{}))
	assert.True(t, probeWith(&fakeServiceClient{}, nil).StructuredAvailable(context.Background(), health.Cluster{}))

	_, err := NewProbe(nil).NodeHealth(context.Background(), health.Cluster{}, health.Instance{})
	assert.ErrorIs(t, err, health.ErrNoProbe)
}

func TestProbe_WithReconciler(t *testing.T) {
	t.Parallel()
	fake := &fakeServiceClient{resp: &machine.ServiceListResponse{
		Messages: []*machine.ServiceList{{
			Services: []*machine.ServiceInfo{service("kubelet", "Running", &machine.ServiceHealth{Healthy: true})},
		}},
	}}
	cluster := health.Cluster{Name: "prod", Instances: []health.Instance{
		{Name: "cp-1", InstanceID: "1", Status: health.InstanceCreated},
		{Name: "cp-2", InstanceID: "2", Status: health.InstanceCreated},
	}}

	got := health.NewReconciler(health.WithStructuredProbe(probeWith(fake, nil))).Reconcile(context.Background(), cluster)

	assert.Equal(t, health.StatusAvailable, got.Status)
}

func TestLoadConfig_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadConfig("/nonexistent/talosconfig")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read talosconfig")
}
