package step

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/logger"
	"github.com/kbukum/rivet/observability"
)

// Scheduler runs a target step after all of its dependencies.
type Scheduler struct {
	middleware []Middleware
	onPinned   []func(ctx context.Context, name string)
	log        *logger.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// UseMiddleware appends middleware around every step execution.
func UseMiddleware(mw ...Middleware) Option {
	return func(s *Scheduler) { s.middleware = append(s.middleware, mw...) }
}

// OnPinned registers a callback for every pinned step the run reaches.
func OnPinned(fn func(ctx context.Context, name string)) Option {
	return func(s *Scheduler) { s.onPinned = append(s.onPinned, fn) }
}

// WithLogger sets the logger used for scheduling decisions.
func WithLogger(log *logger.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get("scheduler")
	}
	return s
}

// Run executes target and its transitive dependencies. The returned Result
// is never nil; on failure it lists the steps reached up to and including
// the failing one, and the error is the failing step's error.
func Run(ctx context.Context, target Step) (*Result, error) {
	return NewScheduler().Run(ctx, target)
}

// Run executes target and its transitive dependencies.
func (s *Scheduler) Run(ctx context.Context, target Step) (*Result, error) {
	r := &run{
		scheduler: s,
		exec:      Chain(s.middleware...)(execute),
		visited:   make(map[Step]struct{}),
		active:    make(map[Step]struct{}),
		result:    &Result{RunID: uuid.New(), Target: Name(target)},
	}

	ctx = logger.ContextWithRunID(ctx, r.result.RunID.String())
	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, r.result.RunID.String())
	observability.SetSpanAttribute(ctx, observability.AttrTarget, r.result.Target)

	start := time.Now()
	err := r.visit(ctx, target)
	r.result.Duration = time.Since(start)

	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return r.result, err
}

// run holds the state of one Run call. It is not shared between calls.
type run struct {
	scheduler *Scheduler
	exec      ExecuteFunc
	visited   map[Step]struct{}
	active    map[Step]struct{}
	result    *Result
}

func (r *run) visit(ctx context.Context, s Step) error {
	if _, done := r.visited[s]; done {
		return nil
	}
	if _, onStack := r.active[s]; onStack {
		return errors.InvalidInput("dependencies", fmt.Sprintf("step %q depends on itself", Name(s)))
	}
	r.active[s] = struct{}{}
	defer delete(r.active, s)

	for _, dep := range s.Dependencies() {
		if err := r.visit(ctx, dep); err != nil {
			return err
		}
	}

	name := Name(s)
	if s.Pinned() {
		r.visited[s] = struct{}{}
		r.result.Steps = append(r.result.Steps, StepResult{Name: name, Status: StatusPinned})
		r.scheduler.log.WithContext(ctx).Info("step pinned, skipping", logger.Fields(logger.FieldStep, name))
		for _, fn := range r.scheduler.onPinned {
			fn(ctx, name)
		}
		return nil
	}

	if err := ctx.Err(); err != nil {
		return r.fail(name, 0, errors.Canceled(name, err))
	}

	start := time.Now()
	err := r.exec(ctx, s)
	duration := time.Since(start)
	if err != nil {
		return r.fail(name, duration, err)
	}

	r.visited[s] = struct{}{}
	r.result.Steps = append(r.result.Steps, StepResult{Name: name, Status: StatusCompleted, Duration: duration})
	return nil
}

func (r *run) fail(name string, d time.Duration, err error) error {
	r.result.Steps = append(r.result.Steps, StepResult{Name: name, Status: StatusFailed, Duration: d, Error: err})
	return err
}
