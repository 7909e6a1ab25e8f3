package ssh

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/imamik/opwatch/internal/health"
)

// Executor runs a command on a host.
type Executor interface {
	Execute(ctx context.Context, host, command string) (string, error)
}

// Resolver returns the SSH host of an instance.
type Resolver func(ctx context.Context, instance health.Instance) (string, error)

// ConnCheckProbe is a health.LegacyProbe that runs the connectivity tool on
// every node over SSH.
type ConnCheckProbe struct {
	exec    Executor
	command string
	resolve Resolver
}

// NewConnCheckProbe creates a probe running command through exec. A nil
// resolve connects to the instance name.
func NewConnCheckProbe(exec Executor, command string, resolve Resolver) *ConnCheckProbe {
	if resolve == nil {
		resolve = func(_ context.Context, in health.Instance) (string, error) { return in.Name, nil }
	}
	return &ConnCheckProbe{exec: exec, command: command, resolve: resolve}
}

// ConnCheck implements health.LegacyProbe. The tool exits non-zero when a
// peer fails; its output is still parsed in that case.
func (p *ConnCheckProbe) ConnCheck(ctx context.Context, _ health.Cluster, instance health.Instance) ([]health.Message, error) {
	host, err := p.resolve(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve host of %s: %w", instance.Name, err)
	}

	out, err := p.exec.Execute(ctx, host, p.command)
	if err != nil {
		if !IsExitError(err) || strings.TrimSpace(out) == "" {
			return nil, err
		}
		logr.FromContextOrDiscard(ctx).V(1).Info("conncheck exited non-zero", "host", host, "error", err.Error())
	}

	return health.MessagesFromLines(strings.Split(out, "\n")), nil
}
