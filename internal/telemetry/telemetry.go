package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/prosecnetworks/sentinel/internal/config"
	"github.com/prosecnetworks/sentinel/pkg/types"
)

// Telemetry records audit-level metrics and owns the tracer provider.
type Telemetry interface {
	RecordAudit(mode string, duration float64, assets int, success bool)
	RecordAssetReport(level types.RiskLevel)
	RecordProbeFailure(probe string)
	Tracer() trace.Tracer
	Close() error
}

type telemetry struct {
	tracer         trace.Tracer
	meter          metric.Meter
	tracerProvider *sdktrace.TracerProvider

	auditCounter   metric.Int64Counter
	auditDuration  metric.Float64Histogram
	assetCounter   metric.Int64Counter
	failureCounter metric.Int64Counter
}

func New(ctx context.Context, cfg config.TelemetryConfig) (Telemetry, error) {
	if !cfg.Enabled {
		return &noopTelemetry{}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	client := otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	meter := otel.Meter(cfg.ServiceName)

	auditCounter, err := meter.Int64Counter("sentinel.audits.total",
		metric.WithDescription("Total number of audits"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	auditDuration, err := meter.Float64Histogram("sentinel.audit.duration",
		metric.WithDescription("Audit duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	assetCounter, err := meter.Int64Counter("sentinel.assets.total",
		metric.WithDescription("Total number of assets analyzed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	failureCounter, err := meter.Int64Counter("sentinel.probe.failures",
		metric.WithDescription("Total number of probe failures converted to sentinel values"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracer:         tp.Tracer(cfg.ServiceName),
		meter:          meter,
		tracerProvider: tp,
		auditCounter:   auditCounter,
		auditDuration:  auditDuration,
		assetCounter:   assetCounter,
		failureCounter: failureCounter,
	}, nil
}

func (t *telemetry) RecordAudit(mode string, duration float64, assets int, success bool) {
	ctx := context.Background()

	attrs := []attribute.KeyValue{
		attribute.String("audit.mode", mode),
		attribute.Bool("audit.success", success),
	}

	attrs = append(attrs, attribute.Int("audit.assets", assets))
	t.auditCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	t.auditDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
}

func (t *telemetry) RecordAssetReport(level types.RiskLevel) {
	t.assetCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("risk.level", string(level)),
	))
}

func (t *telemetry) RecordProbeFailure(probe string) {
	t.failureCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("probe", probe),
	))
}

func (t *telemetry) Tracer() trace.Tracer {
	return t.tracer
}

func (t *telemetry) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.tracerProvider.Shutdown(ctx)
}

// Noop returns a Telemetry that records nothing. Used when telemetry
// initialization fails and the scan should proceed regardless.
func Noop() Telemetry {
	return &noopTelemetry{}
}

type noopTelemetry struct{}

func (n *noopTelemetry) RecordAudit(mode string, duration float64, assets int, success bool) {}
func (n *noopTelemetry) RecordAssetReport(level types.RiskLevel)                             {}
func (n *noopTelemetry) RecordProbeFailure(probe string)                                     {}
func (n *noopTelemetry) Tracer() trace.Tracer                                                { return otel.Tracer("sentinel/noop") }
func (n *noopTelemetry) Close() error                                                        { return nil }
