package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/kbukum/rivet/observability"
	"github.com/kbukum/rivet/step"
)

// Summary tracks and displays what a run checked and executed.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	runDuration     time.Duration
	checks          []observability.Health
	result          *step.Result
}

// NewSummary creates a new summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the time spent before the task started.
func (s *Summary) SetStartupDuration(d time.Duration) { s.startupDuration = d }

// SetRunDuration records the time the task took.
func (s *Summary) SetRunDuration(d time.Duration) { s.runDuration = d }

// TrackCheck records a preflight check result.
func (s *Summary) TrackCheck(h observability.Health) {
	s.checks = append(s.checks, h)
}

// SetResult records the scheduler result of the run. A nil result, as from
// a dry run, leaves the steps section out.
func (s *Summary) SetResult(r *step.Result) { s.result = r }

// Display writes the summary to w.
func (s *Summary) Display(w io.Writer) {
	fmt.Fprintf(w, "\n")
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "🚀 %s %s (startup %.2fs)\n", s.serviceName, version, s.startupDuration.Seconds())

	if len(s.checks) > 0 {
		fmt.Fprintf(w, "\n🔧 Tools\n")
		for i, h := range s.checks {
			detail := h.Details["path"]
			if h.Message != "" {
				detail = h.Message
			}
			fmt.Fprintf(w, "   %s %s %s: %s\n", branch(i, len(s.checks)), healthStatusIcon(h.Status), h.Name, detail)
		}
	}

	if s.result != nil {
		r := s.result
		fmt.Fprintf(w, "\n📦 Steps (target %s, run %s)\n", r.Target, r.RunID)
		if len(r.Steps) == 0 {
			fmt.Fprintf(w, "   └── No steps reached\n")
		}
		for i, st := range r.Steps {
			detail := fmt.Sprintf("%.2fs", st.Duration.Seconds())
			switch st.Status {
			case step.StatusPinned:
				detail = "pinned"
			case step.StatusFailed:
				if st.Error != nil {
					detail = st.Error.Error()
				}
			}
			fmt.Fprintf(w, "   %s %s %s (%s)\n", branch(i, len(r.Steps)), stepIcon(st.Status), st.Name, detail)
		}
		fmt.Fprintf(w, "\n")
		if failed, ok := r.Failed(); ok {
			fmt.Fprintf(w, "❌ %s failed after %.2fs\n", failed.Name, s.runDuration.Seconds())
		} else {
			fmt.Fprintf(w, "✅ %d steps completed, %d pinned in %.2fs\n",
				len(r.Executed()), len(r.Pinned()), s.runDuration.Seconds())
		}
	}

	fmt.Fprintf(w, "\n")
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func stepIcon(status string) string {
	switch status {
	case step.StatusCompleted:
		return "✅"
	case step.StatusPinned:
		return "📌"
	case step.StatusFailed:
		return "❌"
	default:
		return "❓"
	}
}

func healthStatusIcon(status observability.HealthStatus) string {
	switch status {
	case observability.HealthStatusUp:
		return "✅"
	case observability.HealthStatusDegraded:
		return "⚠️"
	case observability.HealthStatusDown:
		return "❌"
	default:
		return "❓"
	}
}
