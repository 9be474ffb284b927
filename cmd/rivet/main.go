// Command rivet builds a hierarchical chip design with the Cadence
// reference flow.
//
//	rivet [--config file] [--hierarchy file] [--work-dir dir] [--dry-run] [--list] <target>
//
// target is "<module>.<stage>" or a bare module name for its last stage.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/rivet/bootstrap"
	"github.com/kbukum/rivet/config"
	"github.com/kbukum/rivet/errors"
	"github.com/kbukum/rivet/flows"
	"github.com/kbukum/rivet/logger"
	"github.com/kbukum/rivet/observability"
	"github.com/kbukum/rivet/step"
	"github.com/kbukum/rivet/tool"
	"github.com/kbukum/rivet/version"
)

func main() {
	if err := run(context.Background(), os.Stdout, os.Args[1:]); err != nil {
		if !stderrors.Is(err, pflag.ErrHelp) {
			logger.Error("rivet failed", errors.Diagnostic(err))
			os.Exit(1)
		}
	}
}

type options struct {
	configFile string
	envFile    string
	hierarchy  string
	workDir    string
	pdkRoot    string
	dryRun     bool
	list       bool
	check      bool
	version    bool
	target     string
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("rivet", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVarP(&o.configFile, "config", "c", "", "run configuration file (yaml, toml or json)")
	fs.StringVar(&o.envFile, "env-file", "", "dotenv file with RIVET_ overrides")
	fs.StringVarP(&o.hierarchy, "hierarchy", "H", "", "module hierarchy file")
	fs.StringVarP(&o.workDir, "work-dir", "w", "", "directory holding the build-<module> directories")
	fs.StringVar(&o.pdkRoot, "pdk-root", "", "process design kit root")
	fs.BoolVarP(&o.dryRun, "dry-run", "n", false, "print the steps the target would run")
	fs.BoolVarP(&o.list, "list", "l", false, "list the available targets")
	fs.BoolVar(&o.check, "check", false, "check that the tool binaries can be found")
	fs.BoolVarP(&o.version, "version", "v", false, "print the version")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: rivet [flags] <module>[.<stage>]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch rest := fs.Args(); {
	case len(rest) > 1:
		return nil, errors.InvalidInput("target", fmt.Sprintf("expected one target, got %d", len(rest)))
	case len(rest) == 1:
		o.target = rest[0]
	case !o.version && !o.list && !o.check:
		return nil, errors.MissingField("target")
	}
	return o, nil
}

func loadConfig(o *options) (*config.RunConfig, error) {
	cfg := &config.RunConfig{}
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	if err := config.LoadConfig("rivet", cfg, opts...); err != nil {
		return nil, err
	}
	if o.hierarchy != "" {
		cfg.Hierarchy = o.hierarchy
	}
	if o.workDir != "" {
		cfg.WorkDir = o.workDir
	}
	if o.pdkRoot != "" {
		cfg.PDKRoot = o.pdkRoot
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	return cfg, nil
}

func run(ctx context.Context, out io.Writer, args []string) error {
	o, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintln(out, version.Get())
		return nil
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithOutput(out))
	if err != nil {
		return err
	}
	log := app.Logger.WithComponent("cli")

	settings := flows.Settings{WorkDir: cfg.WorkDir, PDK: flows.Sky130(cfg.PDKRoot)}
	settings.Override(cfg.Tools)

	if o.check {
		return check(ctx, out, settings)
	}

	if err := cfg.RequireHierarchy(); err != nil {
		return err
	}
	hierarchy, err := flows.LoadHierarchy(cfg.Hierarchy)
	if err != nil {
		return err
	}
	flow, err := flows.ReferenceFlow(settings, hierarchy)
	if err != nil {
		return err
	}
	if err := flows.Apply(flow, cfg.NodeConfigs()); err != nil {
		return err
	}
	targets := flows.Targets(flow)
	log.Debug("flow composed", logger.Fields("modules", flow.Count(), "targets", targets.Len()))

	if o.list {
		for _, name := range targets.List() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	target, err := targets.Lookup(o.target)
	if err != nil {
		if ts, lerr := flows.Lookup(flow, o.target); lerr == nil {
			target = ts
		} else {
			return err
		}
	}

	if o.dryRun {
		return dryRun(out, target)
	}

	var shutdown observability.ShutdownFunc
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdown, err = observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
		return err
	})
	app.OnStop(func(ctx context.Context) error {
		if shutdown == nil {
			return nil
		}
		return shutdown(ctx)
	})
	for _, d := range settings.Dialects() {
		app.AddCheck(tool.BinaryCheck{Dialect: d})
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		sched, err := newScheduler(log)
		if err != nil {
			return err
		}
		res, err := sched.Run(ctx, target)
		app.Summary.SetResult(res)
		return err
	})
}

func newScheduler(log *logger.Logger) (*step.Scheduler, error) {
	metrics, err := observability.NewStepMetrics(observability.Meter("rivet"))
	if err != nil {
		return nil, err
	}
	return step.NewScheduler(
		step.UseMiddleware(
			step.WithTracing("rivet"),
			step.WithMetrics(metrics),
			step.WithLogging(logger.Get("step")),
		),
		step.OnPinned(metrics.RecordPinned),
		step.WithLogger(log.WithComponent("scheduler")),
	), nil
}

func check(ctx context.Context, out io.Writer, s flows.Settings) error {
	report := tool.Preflight(ctx, s.Dialects()...)
	for _, h := range report.Components {
		detail := h.Details["path"]
		if h.Message != "" {
			detail = h.Message
		}
		fmt.Fprintf(out, "%-8s %-5s %s\n", h.Name, h.Status, detail)
	}
	if !report.Healthy() {
		return errors.New(errors.ErrCodeNotFound, "Some tools were not found on PATH.").WithDetail("report", report)
	}
	return nil
}

func dryRun(out io.Writer, target step.Step) error {
	for _, p := range step.Plan(target) {
		line := p.Name
		if ts, ok := p.Step.(*tool.ToolStep); ok {
			subs, err := ts.Selected()
			if err != nil {
				return err
			}
			line = fmt.Sprintf("%-24s %s (%d substeps)", p.Name, ts.WorkDir, len(subs))
			if ts.Start != nil {
				line += " from " + ts.Start.Name
			}
			if ts.Stop != "" {
				line += " until " + ts.Stop
			}
		}
		if p.Pinned {
			line += " [pinned]"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
