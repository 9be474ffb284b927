package tool

import (
	"context"
	"os/exec"

	"github.com/kbukum/rivet/observability"
)

// BinaryCheck reports whether a dialect's executable can be found.
type BinaryCheck struct {
	Dialect Dialect
}

var _ observability.HealthChecker = BinaryCheck{}

// CheckHealth resolves the dialect binary on PATH.
func (c BinaryCheck) CheckHealth(_ context.Context) observability.Health {
	path, err := exec.LookPath(c.Dialect.Binary)
	if err != nil {
		return observability.Health{
			Name:    c.Dialect.Tool,
			Status:  observability.HealthStatusDown,
			Message: err.Error(),
		}
	}
	return observability.Health{
		Name:    c.Dialect.Tool,
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"path": path},
	}
}

// Preflight checks every distinct binary used by dialects.
func Preflight(ctx context.Context, dialects ...Dialect) *observability.Report {
	report := observability.NewReport("tools", "")
	seen := make(map[string]bool)
	for _, d := range dialects {
		if seen[d.Binary] {
			continue
		}
		seen[d.Binary] = true
		report.AddComponent(BinaryCheck{Dialect: d}.CheckHealth(ctx))
	}
	return report
}
