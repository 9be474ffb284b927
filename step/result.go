package step

import (
	"time"

	"github.com/google/uuid"
)

// Step outcomes.
const (
	StatusCompleted = "completed"
	StatusPinned    = "pinned"
	StatusFailed    = "failed"
)

// Result holds the outcome of one scheduler run.
type Result struct {
	RunID    uuid.UUID
	Target   string
	Steps    []StepResult
	Duration time.Duration
}

// StepResult holds the outcome of a single step, in the order the scheduler
// reached it.
type StepResult struct {
	Name     string
	Status   string // "completed" | "pinned" | "failed"
	Duration time.Duration
	Error    error
}

// Executed returns the names of the steps that ran successfully, in order.
func (r *Result) Executed() []string {
	return r.names(StatusCompleted)
}

// Pinned returns the names of the steps that were skipped as pinned.
func (r *Result) Pinned() []string {
	return r.names(StatusPinned)
}

// Failed returns the failing step, if any.
func (r *Result) Failed() (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s, true
		}
	}
	return StepResult{}, false
}

func (r *Result) names(status string) []string {
	var out []string
	for _, s := range r.Steps {
		if s.Status == status {
			out = append(out, s.Name)
		}
	}
	return out
}
