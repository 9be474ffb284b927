package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/rivet/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name reported for every metric.
	ServiceName string
	// ServiceVersion is the rivet build version.
	ServiceVersion string
	// Environment labels the run (dev, ci, signoff).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows plain HTTP to the collector.
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns defaults for a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Step outcome labels.
const (
	StatusCompleted = "completed"
	StatusPinned    = "pinned"
	StatusFailed    = "failed"
)

// StepMetrics holds the instruments recorded for every scheduled step.
type StepMetrics struct {
	executions metric.Int64Counter
	duration   metric.Float64Histogram
	failures   metric.Int64Counter
	pinned     metric.Int64Counter
	active     metric.Int64UpDownCounter
}

// NewStepMetrics creates metric instruments on the given meter.
func NewStepMetrics(meter metric.Meter) (*StepMetrics, error) {
	executions, err := meter.Int64Counter("step.executions",
		metric.WithDescription("Steps executed, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.executions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("step.duration",
		metric.WithDescription("Wall time of executed steps in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.duration histogram: %w", err)
	}

	failures, err := meter.Int64Counter("step.failures",
		metric.WithDescription("Failed steps by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.failures counter: %w", err)
	}

	pinned, err := meter.Int64Counter("step.pinned",
		metric.WithDescription("Steps skipped because they are pinned"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.pinned counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("step.active",
		metric.WithDescription("Steps currently executing"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step.active counter: %w", err)
	}

	return &StepMetrics{
		executions: executions,
		duration:   duration,
		failures:   failures,
		pinned:     pinned,
		active:     active,
	}, nil
}

// RecordStart marks a step as executing.
func (m *StepMetrics) RecordStart(ctx context.Context) {
	m.active.Add(ctx, 1)
}

// RecordStep records a finished step execution.
func (m *StepMetrics) RecordStep(ctx context.Context, step, status string, duration time.Duration) {
	m.active.Add(ctx, -1)
	m.executions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
	))
}

// RecordFailure records a failed step by error code.
func (m *StepMetrics) RecordFailure(ctx context.Context, step, code string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("code", code),
	))
}

// RecordPinned records a step that was skipped because it is pinned.
func (m *StepMetrics) RecordPinned(ctx context.Context, step string) {
	m.pinned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
	))
}
