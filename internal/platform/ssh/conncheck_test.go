package ssh

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/opwatch/internal/health"
)

type fakeExecutor struct {
	out   string
	err   error
	hosts []string
}

func (f *fakeExecutor) Execute(_ context.Context, host, _ string) (string, error) {
	f.hosts = append(f.hosts, host)
	return f.out, f.err
}

const failingOutput = `Check connection from master to remote replica 'cp-2'
Kerberos KDC
ExternalCommandOutput: TCP (88): FAILED
Check connection from master to remote replica 'cp-3'
ExternalCommandOutput: Secure port (636): OK
`

func TestConnCheck(t *testing.T) {
	t.Parallel()
	exitErr := fmt.Errorf("command failed: %w", &ssh.ExitError{})

	tests := []struct {
		name     string
		out      string
		err      error
		wantErr  bool
		wantMsgs int
	}{
		{name: "clean run", out: failingOutput, wantMsgs: 5},
		{name: "non-zero exit with output is parsed", out: failingOutput, err: exitErr, wantMsgs: 5},
		{name: "non-zero exit without output", out: "  \n", err: exitErr, wantErr: true},
		{name: "transport error", err: errors.New("connection reset"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			exec := &fakeExecutor{out: tt.out, err: tt.err}
			probe := NewConnCheckProbe(exec, "conncheck", nil)

			msgs, err := probe.ConnCheck(context.Background(), health.Cluster{}, health.Instance{Name: "cp-1"})

			assert.Equal(t, []string{"cp-1"}, exec.hosts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, msgs, tt.wantMsgs)
			assert.Equal(t, health.Message{Name: health.ExternalCommandOutput, Text: "TCP (88): FAILED"}, msgs[2])
		})
	}
}

func TestConnCheck_ResolverError(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{}
	probe := NewConnCheckProbe(exec, "conncheck", func(context.Context, health.Instance) (string, error) {
		return "", errors.New("no address")
	})

	_, err := probe.ConnCheck(context.Background(), health.Cluster{}, health.Instance{Name: "cp-1"})

	require.ErrorContains(t, err, "failed to resolve host of cp-1")
	assert.Empty(t, exec.hosts)
}

func TestConnCheck_OverSSH(t *testing.T) {
	t.Parallel()
	key := generateTestKey(t)
	port := newTestServer(t, key, func(string) (string, uint32) { return failingOutput, 1 })
	client, err := NewClient(&Config{Port: port, User: "root", PrivateKey: key.PrivateKey})
	require.NoError(t, err)

	probe := NewConnCheckProbe(client, "conncheck", func(context.Context, health.Instance) (string, error) {
		return "127.0.0.1", nil
	})
	cluster := health.Cluster{Name: "prod", Instances: []health.Instance{
		{Name: "cp-1", InstanceID: "1", Status: health.InstanceCreated},
		{Name: "cp-2", InstanceID: "2", Status: health.InstanceCreated},
		{Name: "cp-3", InstanceID: "3", Status: health.InstanceCreated},
	}}

	got := health.NewReconciler(health.WithLegacyProbe(probe)).Reconcile(context.Background(), cluster)

	assert.Equal(t, health.StatusUnhealthy, got.Status)
	var unhealthy []string
	for _, n := range got.Nodes {
		if n.Status == health.InstanceUnhealthy {
			unhealthy = append(unhealthy, n.Name)
			assert.Equal(t, []string{"Kerberos KDC"}, n.Issues)
			assert.Equal(t, "2", n.InstanceID)
		}
	}
	assert.Equal(t, []string{"cp-2", "cp-2", "cp-2"}, unhealthy)
}
