package hcloud

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/opwatch/internal/health"
	"github.com/imamik/opwatch/internal/util/labels"
)

// Inventory reads cluster membership from Hetzner Cloud server labels.
type Inventory struct {
	client *RealClient

	mu        sync.RWMutex
	addresses map[string]string
}

// NewInventory creates an Inventory.
func NewInventory(client *RealClient) *Inventory {
	return &Inventory{client: client, addresses: map[string]string{}}
}

// Cluster returns the servers labelled with the cluster name as a health
// input. Instances are sorted by name.
func (inv *Inventory) Cluster(ctx context.Context, name string) (health.Cluster, error) {
	servers, err := inv.client.client.Server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labels.ForCluster(name).String()},
	})
	if err != nil {
		return health.Cluster{}, fmt.Errorf("failed to list servers for cluster %s: %w", name, markTransient(err))
	}

	cluster := health.Cluster{
		CRN:  name,
		Name: name,
	}
	inv.mu.Lock()
	for _, s := range servers {
		cluster.Instances = append(cluster.Instances, instanceFromServer(s))
		if addr := serverAddress(s); addr != "" {
			inv.addresses[s.Name] = addr
		}
	}
	inv.mu.Unlock()

	sort.Slice(cluster.Instances, func(i, j int) bool {
		return cluster.Instances[i].Name < cluster.Instances[j].Name
	})
	return cluster, nil
}

// Address returns the address the probes use to reach instance. Addresses
// seen by Cluster are served from memory; others are looked up.
func (inv *Inventory) Address(ctx context.Context, instance health.Instance) (string, error) {
	inv.mu.RLock()
	addr, ok := inv.addresses[instance.Name]
	inv.mu.RUnlock()
	if ok {
		return addr, nil
	}

	server, _, err := inv.client.client.Server.GetByName(ctx, instance.Name)
	if err != nil {
		return "", fmt.Errorf("failed to get server %s: %w", instance.Name, markTransient(err))
	}
	if server == nil {
		return "", fmt.Errorf("server not found: %s", instance.Name)
	}
	addr = serverAddress(server)
	if addr == "" {
		return "", fmt.Errorf("server %s has no usable IP address", instance.Name)
	}

	inv.mu.Lock()
	inv.addresses[instance.Name] = addr
	inv.mu.Unlock()
	return addr, nil
}

func instanceFromServer(s *hcloud.Server) health.Instance {
	return health.Instance{
		Name:       s.Name,
		InstanceID: formatID(s.ID),
		Status:     instanceStatus(s.Status),
	}
}

// instanceStatus maps a Hetzner server status to the last known instance status.
func instanceStatus(s hcloud.ServerStatus) health.InstanceStatus {
	switch s {
	case hcloud.ServerStatusRunning:
		return health.InstanceCreated
	case hcloud.ServerStatusOff, hcloud.ServerStatusStopping:
		return health.InstanceStopped
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting:
		return health.InstanceRequested
	case hcloud.ServerStatusRebuilding, hcloud.ServerStatusMigrating:
		return health.InstanceRebooting
	case hcloud.ServerStatusDeleting:
		return health.InstanceDeleteRequested
	default:
		return health.InstanceFailed
	}
}

// serverAddress prefers the public IPv4, then the first private network IP.
func serverAddress(s *hcloud.Server) string {
	if ip := s.PublicNet.IPv4.IP; ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	for _, pn := range s.PrivateNet {
		if pn.IP != nil {
			return pn.IP.String()
		}
	}
	return ""
}
