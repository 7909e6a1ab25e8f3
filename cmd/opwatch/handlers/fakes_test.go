package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/opwatch/internal/config"
	"github.com/imamik/opwatch/internal/health"
	"github.com/imamik/opwatch/internal/platform/hcloud"
	"github.com/imamik/opwatch/internal/workflow"
)

func testConfig() *config.Config {
	cfg := config.Default()
	fast := config.Profile{Timeout: 200 * time.Millisecond, Sleep: 5 * time.Millisecond}
	cfg.Profiles = config.Profiles{ImageCopy: fast, Deletion: fast, HostTemplate: fast, NodeHealth: fast}
	cfg.Retry = config.Retry{MaxAttempts: 0, InitialDelay: time.Millisecond}
	return cfg
}

// stubDeps replaces the factory variables for the duration of the test.
func stubDeps(t *testing.T, cfg *config.Config) {
	t.Helper()
	origLoad := loadConfig
	origCloud := newCloudClient
	origInv := newInventory
	origImage := newImageChecker
	origCommand := newCommandClient
	origWorkload := newWorkloadClient
	origRec := newReconciler
	t.Cleanup(func() {
		loadConfig = origLoad
		newCloudClient = origCloud
		newInventory = origInv
		newImageChecker = origImage
		newCommandClient = origCommand
		newWorkloadClient = origWorkload
		newReconciler = origRec
	})

	loadConfig = func(string) (*config.Config, error) { return cfg, nil }
	newCloudClient = func(*config.Config) *hcloud.RealClient { return nil }
}

type fakeInventory struct {
	mu      sync.Mutex
	cluster health.Cluster
	err     error
	calls   int
	// onCall runs after every Cluster call.
	onCall func(calls int)
}

func (f *fakeInventory) Cluster(_ context.Context, name string) (health.Cluster, error) {
	f.mu.Lock()
	f.calls++
	calls := f.calls
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall(calls)
	}
	c := f.cluster
	c.Name = name
	return c, f.err
}

func (f *fakeInventory) Address(_ context.Context, in health.Instance) (string, error) {
	return in.Name, nil
}

func (f *fakeInventory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func useInventory(inv *fakeInventory) {
	newInventory = func(*hcloud.RealClient) clusterInventory { return inv }
}

func useReconciler(opts ...health.Option) {
	newReconciler = func(_ context.Context, _ *config.Config, _ clusterInventory, reg prometheus.Registerer) (*health.Reconciler, error) {
		return health.NewReconciler(append(opts, health.WithMetrics(health.NewMetrics(reg)))...), nil
	}
}

// codeProbe answers every node with one coded message per node name.
type codeProbe struct {
	codes map[string]int
}

func (p codeProbe) NodeHealth(_ context.Context, _ health.Cluster, in health.Instance) (*health.CheckResult, error) {
	code, ok := p.codes[in.Name]
	if !ok {
		code = http.StatusOK
	}
	return &health.CheckResult{Messages: []health.CheckMessage{{Name: "kubelet", Message: "kubelet check", Code: &code}}}, nil
}

func twoNodeCluster() health.Cluster {
	return health.Cluster{Instances: []health.Instance{
		{Name: "cp-1", InstanceID: "1", Status: health.InstanceCreated},
		{Name: "cp-2", InstanceID: "2", Status: health.InstanceCreated},
	}}
}

type fakeImageChecker struct {
	results []workflow.ImageStatusResult
	calls   int
}

func (f *fakeImageChecker) CheckImage(context.Context, workflow.Stack) (workflow.ImageStatusResult, error) {
	res := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return res, nil
}

type fakeCommandClient struct {
	commands []workflow.Command
	calls    int
}

func (f *fakeCommandClient) ReadCommand(context.Context, string) (workflow.Command, error) {
	cmd := f.commands[min(f.calls, len(f.commands)-1)]
	f.calls++
	return cmd, nil
}

type fakeWorkloadClient struct {
	lists   [][]workflow.Workload
	calls   int
	deleted []string
}

func (f *fakeWorkloadClient) ListWorkloads(context.Context, string) ([]workflow.Workload, error) {
	list := f.lists[min(f.calls, len(f.lists)-1)]
	f.calls++
	return list, nil
}

func (f *fakeWorkloadClient) DeleteMultiple(_ context.Context, crns []string, _ bool) error {
	f.deleted = append(f.deleted, crns...)
	return nil
}
