package health

import (
	"context"
	"errors"
	"sync"
)

// fakeStructured answers NodeHealth from a per-instance table and counts calls.
type fakeStructured struct {
	mu        sync.Mutex
	results   map[string]*CheckResult
	errs      map[string]error
	calls     map[string]int
	available *bool
}

func newFakeStructured() *fakeStructured {
	return &fakeStructured{
		results: map[string]*CheckResult{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeStructured) NodeHealth(_ context.Context, _ Cluster, in Instance) (*CheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[in.Name]++
	if err, ok := f.errs[in.Name]; ok {
		return nil, err
	}
	if res, ok := f.results[in.Name]; ok {
		return res, nil
	}
	return nil, errors.New("no fake result for " + in.Name)
}

func (f *fakeStructured) StructuredAvailable(context.Context, Cluster) bool {
	if f.available == nil {
		return true
	}
	return *f.available
}

func (f *fakeStructured) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// fakeLegacy returns canned diagnostic lines per instance.
type fakeLegacy struct {
	mu    sync.Mutex
	lines map[string][]string
	errs  map[string]error
	calls int
}

func (f *fakeLegacy) ConnCheck(_ context.Context, _ Cluster, in Instance) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[in.Name]; ok {
		return nil, err
	}
	return MessagesFromLines(f.lines[in.Name]), nil
}

func code(c int) *int { return &c }

func passing() *CheckResult {
	return &CheckResult{Messages: []CheckMessage{
		{Name: "services", Message: "all services healthy", Code: code(200)},
	}}
}

func failing(msg string) *CheckResult {
	return &CheckResult{Messages: []CheckMessage{
		{Name: "services", Message: "apid running", Code: code(200)},
		{Name: "etcd", Message: msg, Code: code(503)},
	}}
}

func threeNodeCluster() Cluster {
	return Cluster{
		CRN:  "crn:cluster:1",
		Name: "prod",
		Instances: []Instance{
			{Name: "cp-1", InstanceID: "1", Status: InstanceCreated},
			{Name: "cp-2", InstanceID: "2", Status: InstanceCreated},
			{Name: "cp-3", InstanceID: "3", Status: InstanceCreated},
		},
	}
}
