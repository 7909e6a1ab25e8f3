package talos

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/siderolabs/talos/pkg/machinery/api/machine"
	"github.com/siderolabs/talos/pkg/machinery/client"
	"github.com/siderolabs/talos/pkg/machinery/client/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/imamik/opwatch/internal/health"
	"github.com/imamik/opwatch/internal/util/ptr"
	"github.com/imamik/opwatch/internal/util/retry"
)

// ServiceClient is the subset of the Talos client used by the probe.
type ServiceClient interface {
	ServiceList(ctx context.Context, callOptions ...grpc.CallOption) (*machine.ServiceListResponse, error)
	Close() error
}

// Dialer opens a client for one node endpoint.
type Dialer func(ctx context.Context, endpoint string) (ServiceClient, error)

// Resolver returns the endpoint of an instance.
type Resolver func(ctx context.Context, instance health.Instance) (string, error)

// Probe is a health.StructuredProbe backed by the Talos service list.
type Probe struct {
	dial    Dialer
	resolve Resolver
}

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithDialer replaces the Talos client factory (useful for testing).
func WithDialer(d Dialer) ProbeOption {
	return func(p *Probe) {
		p.dial = d
	}
}

// WithResolver sets how instances are mapped to endpoints. By default the
// instance name is used.
func WithResolver(r Resolver) ProbeOption {
	return func(p *Probe) {
		p.resolve = r
	}
}

// NewProbe creates a Probe authenticating with cfg. A nil cfg disables the
// structured strategy through StructuredAvailable unless a dialer is set.
func NewProbe(cfg *config.Config, opts ...ProbeOption) *Probe {
	p := &Probe{
		resolve: func(_ context.Context, in health.Instance) (string, error) { return in.Name, nil },
	}
	if cfg != nil {
		p.dial = configDialer(cfg)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadConfig reads a talosconfig file.
func LoadConfig(path string) (*config.Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read talosconfig: %w", err)
	}
	cfg, err := config.FromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse talosconfig: %w", err)
	}
	return cfg, nil
}

func configDialer(cfg *config.Config) Dialer {
	return func(ctx context.Context, endpoint string) (ServiceClient, error) {
		c, err := client.New(ctx,
			client.WithConfig(cfg),
			client.WithEndpoints(endpoint),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create talos client: %w", err)
		}
		return c, nil
	}
}

// StructuredAvailable implements health.AvailabilityChecker.
func (p *Probe) StructuredAvailable(context.Context, health.Cluster) bool {
	return p.dial != nil
}

// NodeHealth implements health.StructuredProbe.
func (p *Probe) NodeHealth(ctx context.Context, _ health.Cluster, instance health.Instance) (*health.CheckResult, error) {
	if p.dial == nil {
		return nil, retry.Fatal(health.ErrNoProbe)
	}

	endpoint, err := p.resolve(ctx, instance)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve endpoint of %s: %w", instance.Name, err)
	}

	c, err := p.dial(ctx, endpoint)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = c.Close() }()

	resp, err := c.ServiceList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services on %s: %w", endpoint, classify(err))
	}
	return checkResultFromServices(resp), nil
}

// checkResultFromServices converts a service list into check messages.
func checkResultFromServices(resp *machine.ServiceListResponse) *health.CheckResult {
	res := &health.CheckResult{}
	if resp == nil {
		return res
	}

	for _, msg := range resp.GetMessages() {
		if md := msg.GetMetadata(); md != nil && md.GetError() != "" {
			res.Messages = append(res.Messages, health.CheckMessage{
				Name:    md.GetHostname(),
				Message: md.GetError(),
				Code:    ptr.To(http.StatusServiceUnavailable),
			})
		}

		for _, svc := range msg.GetServices() {
			res.Messages = append(res.Messages, serviceMessage(svc))
		}
	}
	return res
}

func serviceMessage(svc *machine.ServiceInfo) health.CheckMessage {
	h := svc.GetHealth()
	m := health.CheckMessage{
		Name:    svc.GetId(),
		Message: fmt.Sprintf("%s is %s", svc.GetId(), svc.GetState()),
	}
	switch {
	case h == nil || h.GetUnknown():
	case h.GetHealthy():
		m.Code = ptr.To(http.StatusOK)
	default:
		m.Code = ptr.To(http.StatusServiceUnavailable)
		if h.GetLastMessage() != "" {
			m.Message = fmt.Sprintf("%s: %s", m.Message, h.GetLastMessage())
		}
	}
	return m
}

// classify marks transport errors that are worth another attempt.
func classify(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return retry.Retryable(err)
	default:
		return err
	}
}
