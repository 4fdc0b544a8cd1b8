package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability exposes OpenTelemetry job instruments through the default
// Prometheus registry, next to the promauto metrics.
type Observability struct {
	meterProvider *metric.MeterProvider
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
	scoreCounter  otelmetric.Int64Counter
}

func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o, err := newWithMeter(provider.Meter(serviceName))
	if err != nil {
		return nil, err
	}
	o.meterProvider = provider
	return o, nil
}

func newWithMeter(meter otelmetric.Meter) (*Observability, error) {
	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	scoreCounter, err := meter.Int64Counter(
		"recommendations.match_type",
		otelmetric.WithDescription("Top recommendations by match tier"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		jobCounter:   jobCounter,
		jobDuration:  jobDuration,
		scoreCounter: scoreCounter,
	}, nil
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType string) {
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("task_type", taskType)))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, d time.Duration) {
	o.jobDuration.Record(ctx, float64(d.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

// RecordMatchType counts the tier of the best recommendation handed out.
func (o *Observability) RecordMatchType(ctx context.Context, matchType string) {
	o.scoreCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("match_type", matchType)))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
