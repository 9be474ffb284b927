package step

import (
	"context"
	"time"

	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/logger"
	"github.com/kbukum/rivet/observability"
)

// WithTracing wraps each execution in an OpenTelemetry span named
// "{prefix}.{step}".
func WithTracing(prefix string) Middleware {
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, s Step) error {
			name := Name(s)
			ctx, span := observability.StartSpan(ctx, prefix+"."+name)
			defer span.End()

			observability.SetSpanAttribute(ctx, observability.AttrStep, name)

			err := next(ctx, s)
			if err != nil {
				observability.SetSpanError(ctx, err)
				if appErr, ok := errors.AsAppError(err); ok {
					observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(appErr.Code))
				}
				observability.SetSpanAttribute(ctx, observability.AttrStatus, StatusFailed)
			} else {
				observability.SetSpanAttribute(ctx, observability.AttrStatus, StatusCompleted)
			}
			return err
		}
	}
}

// WithMetrics records executions, durations and failures.
func WithMetrics(metrics *observability.StepMetrics) Middleware {
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, s Step) error {
			name := Name(s)
			metrics.RecordStart(ctx)
			start := time.Now()
			err := next(ctx, s)
			duration := time.Since(start)

			status := StatusCompleted
			if err != nil {
				status = StatusFailed
				code := string(errors.ErrCodeInternal)
				if appErr, ok := errors.AsAppError(err); ok {
					code = string(appErr.Code)
				}
				metrics.RecordFailure(ctx, name, code)
			}
			metrics.RecordStep(ctx, name, status, duration)
			return err
		}
	}
}

// WithLogging logs the start and outcome of each execution.
func WithLogging(log *logger.Logger) Middleware {
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, s Step) error {
			name := Name(s)
			l := log.WithContext(ctx)
			l.Info("step started", logger.Fields(logger.FieldStep, name))

			start := time.Now()
			err := next(ctx, s)
			duration := time.Since(start)

			if err != nil {
				fields := logger.MergeWithDuration(errors.Diagnostic(err), duration)
				fields[logger.FieldStep] = name
				l.Error("step failed", fields)
			} else {
				l.Info("step completed", logger.StepFields(name, duration))
			}
			return err
		}
	}
}
