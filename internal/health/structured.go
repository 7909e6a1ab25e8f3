package health

// HealthCheckPassing reports whether every coded message of res is in the
// 2xx class. A result without any coded message does not pass.
func HealthCheckPassing(res *CheckResult) bool {
	if res == nil {
		return false
	}

	coded := 0
	for _, m := range res.Messages {
		if m.Code == nil {
			continue
		}
		coded++
		if !successful(*m.Code) {
			return false
		}
	}
	return coded > 0
}

func successful(code int) bool {
	return code >= 200 && code < 300
}

// nodeFromCheckResult builds the node health of a structured probe result.
func nodeFromCheckResult(instance Instance, res *CheckResult) NodeHealth {
	node := NodeHealth{
		Name:       instance.Name,
		InstanceID: instance.InstanceID,
		Status:     InstanceCreated,
	}
	if HealthCheckPassing(res) {
		return node
	}

	node.Status = InstanceUnhealthy
	if res != nil {
		for _, m := range res.Messages {
			node.Issues = append(node.Issues, m.Message)
		}
	}
	return node
}
