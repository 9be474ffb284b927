package step

import "context"

// ExecuteFunc runs a single step.
type ExecuteFunc func(ctx context.Context, s Step) error

// Middleware wraps step execution. Middleware sees the step the scheduler
// is about to execute and never replaces it, so step identity is preserved.
type Middleware func(next ExecuteFunc) ExecuteFunc

// Chain composes multiple middlewares into one. The first middleware is
// outermost.
//
// Chain(a, b, c)(fn) is equivalent to a(b(c(fn))).
func Chain(middlewares ...Middleware) Middleware {
	return func(next ExecuteFunc) ExecuteFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

func execute(ctx context.Context, s Step) error {
	return s.Execute(ctx)
}
