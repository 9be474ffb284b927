package observability

import "context"

// HealthStatus represents whether a prerequisite of the run is usable.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes one checked prerequisite, such as a tool binary.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Report aggregates the checks run before a build.
type Report struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by anything that can check itself.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// NewReport creates a Report with status up.
func NewReport(service, version string) *Report {
	return &Report{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent adds a check result and degrades overall status if needed.
func (r *Report) AddComponent(h Health) {
	r.Components = append(r.Components, h)

	switch h.Status {
	case HealthStatusDown:
		r.Status = HealthStatusDown
	case HealthStatusDegraded:
		if r.Status != HealthStatusDown {
			r.Status = HealthStatusDegraded
		}
	}
}

// Healthy reports whether nothing is down.
func (r *Report) Healthy() bool {
	return r.Status != HealthStatusDown
}
