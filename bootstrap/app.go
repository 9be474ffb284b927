package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/rivet/logger"
	"github.com/kbukum/rivet/observability"
)

// App carries a run through its lifecycle. The type parameter C is the
// config type.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*config.RunConfig]) error {
//	    // a.Cfg is *config.RunConfig
//	    return nil
//	})
//	app.RunTask(ctx, build)
type App[C Config] struct {
	Name    string
	Version string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	output          io.Writer
	gracefulTimeout time.Duration
	checks          []observability.HealthChecker
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
	// started is set once every OnStart hook succeeded; stop hooks run from
	// then on.
	started bool
}

// NewApp creates an application from a typed config.
// It applies defaults, validates the config and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		output:          os.Stdout,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.output != nil {
		app.output = o.output
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// AddCheck registers preflight checks run before the task.
func (a *App[C]) AddCheck(checks ...observability.HealthChecker) {
	a.checks = append(a.checks, checks...)
}

// OnConfigure registers a callback that runs after the start hooks.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck runs every registered check and records the results in the
// summary.
func (a *App[C]) ReadyCheck(ctx context.Context) *observability.Report {
	report := observability.NewReport(a.Name, a.Version)
	for _, c := range a.checks {
		h := c.CheckHealth(ctx)
		report.AddComponent(h)
		a.Summary.TrackCheck(h)
	}
	return report
}

// RunTask executes task with the full lifecycle:
// OnStart hooks → Configure → ReadyCheck → OnReady hooks → task →
// OnStop hooks → summary.
//
// The task's context is canceled on SIGINT or SIGTERM. OnStop hooks run
// whenever the start hooks succeeded, even if a later phase failed, with a
// fresh context bounded by the graceful timeout. The task's error wins over
// a stop error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if a.started {
			_ = a.stop()
		}
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Warn("Received signal, canceling run", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	start := time.Now()
	taskErr := task(taskCtx)
	a.Summary.SetRunDuration(time.Since(start))

	stopErr := a.stop()
	a.DisplaySummary()

	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Debug("Starting", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	a.started = true

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	if report := a.ReadyCheck(ctx); !report.Healthy() {
		for _, h := range report.Components {
			if h.Status == observability.HealthStatusDown {
				a.Logger.Warn("Preflight check failed", map[string]interface{}{
					"check": h.Name,
					"error": h.Message,
				})
			}
		}
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	return nil
}

// DisplaySummary prints the summary to the configured output.
func (a *App[C]) DisplaySummary() {
	a.Summary.Display(a.output)
}

func (a *App[C]) stop() error {
	if len(a.onStop) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}
