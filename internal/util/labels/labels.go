package labels

import (
	"fmt"
	"sort"
	"strings"
)

// Label keys set on cluster servers by the provisioning platform.
const (
	// KeyCluster identifies which cluster a server belongs to.
	KeyCluster = "cluster"

	// KeyRole identifies the role of a server (control-plane, worker).
	KeyRole = "role"
)

// Role values
const (
	RoleControlPlane = "control-plane"
	RoleWorker       = "worker"
)

// SelectorBuilder builds an AND label selector.
type SelectorBuilder struct {
	labels map[string]string
}

// ForCluster starts a selector for the servers of cluster.
func ForCluster(cluster string) *SelectorBuilder {
	return &SelectorBuilder{labels: map[string]string{KeyCluster: cluster}}
}

// WithRole restricts the selector to one role.
func (b *SelectorBuilder) WithRole(role string) *SelectorBuilder {
	if role != "" {
		b.labels[KeyRole] = role
	}
	return b
}

// Labels returns a copy of the selected labels.
func (b *SelectorBuilder) Labels() map[string]string {
	out := make(map[string]string, len(b.labels))
	for k, v := range b.labels {
		out[k] = v
	}
	return out
}

// String renders the selector in the Hetzner API syntax.
func (b *SelectorBuilder) String() string {
	return Selector(b.labels)
}

// Selector renders labels as "k1=v1,k2=v2" with keys in sorted order.
func Selector(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, labels[k]))
	}
	return strings.Join(parts, ",")
}
