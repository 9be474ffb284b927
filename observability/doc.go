// Package observability wires OpenTelemetry tracing and metrics for build
// runs.
//
// Every step executed by the scheduler can be wrapped in a span and counted
// by StepMetrics. When exporting is disabled the global no-op providers stay
// in place and the instrumentation costs nothing.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("rivet"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("rivet"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewStepMetrics(observability.Meter("rivet"))
//	metrics.RecordStep(ctx, "decoder.syn", observability.StatusCompleted, d)
//
// Preflight:
//
//	report := observability.NewReport("rivet", version.Short())
//	report.AddComponent(checker.CheckHealth(ctx))
package observability
