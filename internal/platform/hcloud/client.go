package hcloud

import (
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/opwatch/internal/config"
)

// RealClient wraps the Hetzner Cloud API client.
type RealClient struct {
	client *hcloud.Client
	retry  config.Retry
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithRetry sets the retry settings used for mutating calls.
func WithRetry(r config.Retry) ClientOption {
	return func(c *RealClient) {
		c.retry = r
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client: hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("opwatch", "")),
		retry:  config.Default().Retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HCloudClient returns the underlying hcloud.Client.
func (c *RealClient) HCloudClient() *hcloud.Client {
	return c.client
}
