package step

import (
	"context"
	"fmt"
)

// Step is one buildable unit.
type Step interface {
	// Dependencies lists the steps that must complete first, in order.
	Dependencies() []Step
	// Pinned reports that the step's outputs already exist and it must not
	// be executed.
	Pinned() bool
	// Execute performs the step.
	Execute(ctx context.Context) error
}

// Named is implemented by steps that have a human-readable name.
type Named interface {
	Name() string
}

// Name returns the step's name, or its type when it has none.
func Name(s Step) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// Func adapts a function into a Step. It is mostly useful for glue steps
// and tests.
type Func struct {
	ID     string
	Deps   []Step
	Pin    bool
	Action func(ctx context.Context) error
}

func (f *Func) Name() string         { return f.ID }
func (f *Func) Dependencies() []Step { return f.Deps }
func (f *Func) Pinned() bool         { return f.Pin }

func (f *Func) Execute(ctx context.Context) error {
	if f.Action == nil {
		return nil
	}
	return f.Action(ctx)
}
