// Package bootstrap runs a finite task, such as one build, with the
// lifecycle every rivet command shares: typed configuration, logger setup,
// preflight checks, start and stop hooks, cancellation on SIGINT/SIGTERM
// and a closing summary.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.AddCheck(checks...)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    res, err := scheduler.Run(ctx, target)
//	    app.Summary.SetResult(res)
//	    return err
//	})
package bootstrap
