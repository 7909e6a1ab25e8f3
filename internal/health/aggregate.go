package health

// verdict is the aggregated status with the rule that produced it.
type verdict struct {
	status Status
	reason string
}

// OverallStatus folds the node statuses of one pass into the cluster status.
// Only nodes whose instance id belongs to a non-terminated instance of the
// cluster are considered.
func OverallStatus(cluster Cluster, nodes []NodeHealth) Status {
	return aggregate(cluster, nodes).status
}

func aggregate(cluster Cluster, nodes []NodeHealth) verdict {
	expected := nonTerminatedInstanceIDs(cluster)

	var statuses []InstanceStatus
	observed := make(map[string]struct{}, len(expected))
	for _, n := range nodes {
		if _, ok := expected[n.InstanceID]; ok {
			statuses = append(statuses, n.Status)
			observed[n.InstanceID] = struct{}{}
		}
	}

	switch {
	case len(statuses) == 0:
		return verdict{status: StatusUnhealthy, reason: "no observation for any non-terminated instance"}
	case !allSame(statuses):
		return verdict{status: StatusUnhealthy, reason: "nodes report different health statuses"}
	// Legacy passes report each peer once per observer, so count distinct ids.
	case len(observed) < len(expected):
		return verdict{status: StatusUnhealthy, reason: "health observations are missing for some instances"}
	default:
		return verdict{status: ToClusterStatus(statuses[0]), reason: "all nodes agree"}
	}
}

func nonTerminatedInstanceIDs(cluster Cluster) map[string]struct{} {
	ids := make(map[string]struct{}, len(cluster.Instances))
	for _, in := range cluster.Instances {
		if in.IsTerminated() || in.InstanceID == "" {
			continue
		}
		ids[in.InstanceID] = struct{}{}
	}
	return ids
}

func allSame(statuses []InstanceStatus) bool {
	for _, s := range statuses[1:] {
		if s != statuses[0] {
			return false
		}
	}
	return true
}

// resolveInstanceIDs sets each node's instance id from the cluster's
// name → id map. Nodes whose name is unknown keep their id.
func resolveInstanceIDs(cluster Cluster, nodes []NodeHealth) {
	byName := make(map[string]string, len(cluster.Instances))
	for _, in := range cluster.Instances {
		if in.Name != "" && in.InstanceID != "" {
			byName[in.Name] = in.InstanceID
		}
	}
	for i := range nodes {
		if id, ok := byName[nodes[i].Name]; ok {
			nodes[i].InstanceID = id
		}
	}
}
