package health

// clusterStatusByInstance maps the common node status of a healthy-looking
// cluster to its cluster-level status. Unlisted statuses mean UNHEALTHY.
var clusterStatusByInstance = map[InstanceStatus]Status{
	InstanceRequested:             StatusRequested,
	InstanceCreated:               StatusAvailable,
	InstanceTerminated:            StatusDeleteCompleted,
	InstanceDeletedOnProviderSide: StatusDeletedOnProviderSide,
	InstanceDeletedByProvider:     StatusDeletedOnProviderSide,
	InstanceStopped:               StatusStopped,
	InstanceRebooting:             StatusUpdateInProgress,
	InstanceUnreachable:           StatusUnreachable,
	InstanceDeleteRequested:       StatusDeleteInProgress,
}

// ToClusterStatus converts a node status shared by every node into the
// cluster status.
func ToClusterStatus(s InstanceStatus) Status {
	if status, ok := clusterStatusByInstance[s]; ok {
		return status
	}
	return StatusUnhealthy
}
