package health

// InstanceStatus is the status of a single instance as recorded by the
// platform or observed by a probe.
type InstanceStatus string

const (
	InstanceRequested             InstanceStatus = "REQUESTED"
	InstanceCreated               InstanceStatus = "CREATED"
	InstanceUnhealthy             InstanceStatus = "UNHEALTHY"
	InstanceUnreachable           InstanceStatus = "UNREACHABLE"
	InstanceStopped               InstanceStatus = "STOPPED"
	InstanceFailed                InstanceStatus = "FAILED"
	InstanceRebooting             InstanceStatus = "REBOOTING"
	InstanceDeleteRequested       InstanceStatus = "DELETE_REQUESTED"
	InstanceTerminated            InstanceStatus = "TERMINATED"
	InstanceDeletedOnProviderSide InstanceStatus = "DELETED_ON_PROVIDER_SIDE"
	InstanceDeletedByProvider     InstanceStatus = "DELETED_BY_PROVIDER"
)

// Status is the aggregated health of a cluster.
type Status string

const (
	StatusAvailable             Status = "AVAILABLE"
	StatusUnhealthy             Status = "UNHEALTHY"
	StatusRequested             Status = "REQUESTED"
	StatusStopped               Status = "STOPPED"
	StatusUnreachable           Status = "UNREACHABLE"
	StatusUpdateInProgress      Status = "UPDATE_IN_PROGRESS"
	StatusDeleteInProgress      Status = "DELETE_IN_PROGRESS"
	StatusDeleteCompleted       Status = "DELETE_COMPLETED"
	StatusDeletedOnProviderSide Status = "DELETED_ON_PROVIDER_SIDE"
)

// cacheableStatuses are last-known states that make a probe pointless.
var cacheableStatuses = map[InstanceStatus]bool{
	InstanceStopped: true,
	InstanceFailed:  true,
}

// Instance is the caller's last known view of one cluster member.
type Instance struct {
	// Name is the discovery FQDN of the instance.
	Name       string         `json:"name" yaml:"name"`
	InstanceID string         `json:"instanceId,omitempty" yaml:"instanceId,omitempty"`
	Status     InstanceStatus `json:"status" yaml:"status"`
	// Terminated is set when the platform recorded a termination even if
	// Status has not caught up yet.
	Terminated bool `json:"terminated,omitempty" yaml:"terminated,omitempty"`
	// DeletedOnProvider is set when the provider no longer knows the instance.
	DeletedOnProvider bool `json:"deletedOnProvider,omitempty" yaml:"deletedOnProvider,omitempty"`
}

// IsTerminated reports whether the instance no longer exists.
func (i Instance) IsTerminated() bool {
	return i.Terminated || i.Status == InstanceTerminated
}

// IsDeletedOnProvider reports whether the provider removed the instance.
func (i Instance) IsDeletedOnProvider() bool {
	return i.DeletedOnProvider || i.Status == InstanceDeletedOnProviderSide || i.Status == InstanceDeletedByProvider
}

// Excluded reports whether the instance must not be probed.
func (i Instance) Excluded() bool {
	return i.IsTerminated() || i.IsDeletedOnProvider() || cacheableStatuses[i.Status]
}

// Cluster is the input of a reconciliation pass.
type Cluster struct {
	CRN            string
	EnvironmentCRN string
	Name           string
	Instances      []Instance
}

// NodeHealth is the observed health of one node in one pass.
type NodeHealth struct {
	Name       string         `json:"name" yaml:"name"`
	InstanceID string         `json:"instanceId,omitempty" yaml:"instanceId,omitempty"`
	Status     InstanceStatus `json:"status" yaml:"status"`
	Issues     []string       `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// ClusterHealth is the verdict of one reconciliation pass.
type ClusterHealth struct {
	CRN            string       `json:"crn" yaml:"crn"`
	EnvironmentCRN string       `json:"environmentCrn,omitempty" yaml:"environmentCrn,omitempty"`
	Name           string       `json:"name" yaml:"name"`
	Status         Status       `json:"status" yaml:"status"`
	Nodes          []NodeHealth `json:"nodes" yaml:"nodes"`
}
