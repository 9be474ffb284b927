// Package step defines the buildable unit of a flow and the scheduler that
// runs a target together with everything it depends on.
//
// The scheduler walks dependencies depth-first and runs each step after its
// dependencies. A step reachable along several paths runs at most once per
// run, judged by identity, so steps must be pointers. Pinned steps are not
// executed but their dependencies still are. The first failure stops the
// run.
//
//	sched := step.NewScheduler(
//	    step.UseMiddleware(step.WithLogging(log), step.WithTracing("rivet")),
//	)
//	result, err := sched.Run(ctx, target)
package step
