package messaging

// HealthStatus is the broker connection state reported by readiness checks.
type HealthStatus struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// CheckHealth reports whether p is connected to its broker.
func CheckHealth(p Publisher) HealthStatus {
	if p == nil {
		return HealthStatus{Error: "publisher is nil"}
	}
	if !p.IsConnected() {
		return HealthStatus{Error: "not connected to message broker"}
	}
	return HealthStatus{Connected: true}
}
