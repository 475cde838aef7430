package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ServiceName identifies this service in traces and metrics
	ServiceName = "mepscan"
	// ServiceVersion is the reported service version
	ServiceVersion = "1.0.0"
	// MeterName scopes the instruments created by this module
	MeterName = "mepscan"
)

// OTelProviders holds the OpenTelemetry providers and the Prometheus
// scrape handler they export through.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// InitializeOTel sets up tracing (stdout exporter, dev-oriented) and
// metrics (Prometheus exporter on a dedicated registry).
func InitializeOTel(logger *slog.Logger) (*OTelProviders, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.1))),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metricExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(metricExporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	logger.Info("observability initialized",
		slog.String("service", ServiceName),
		slog.String("version", ServiceVersion))

	return &OTelProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Tracer:         tracerProvider.Tracer(MeterName),
		Meter:          meterProvider.Meter(MeterName),
		PrometheusHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logger,
	}, nil
}

// Shutdown flushes and stops the providers.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := p.TracerProvider.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := p.MeterProvider.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// AnalysisMetrics holds the business instruments recorded per analysis run.
type AnalysisMetrics struct {
	AnalysesTotal    metric.Int64Counter
	AnalysisFailures metric.Int64Counter
	RowsProduced     metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
}

// NewAnalysisMetrics creates the analysis instruments on the given meter.
func NewAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	analyses, err := meter.Int64Counter("mepscan_analyses_total",
		metric.WithDescription("Completed analysis runs"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("mepscan_analysis_failures_total",
		metric.WithDescription("Analysis runs that ended in an error"))
	if err != nil {
		return nil, err
	}
	rows, err := meter.Int64Counter("mepscan_analysis_rows_total",
		metric.WithDescription("Analysis rows produced"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("mepscan_analysis_duration_seconds",
		metric.WithDescription("Analysis run duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &AnalysisMetrics{
		AnalysesTotal:    analyses,
		AnalysisFailures: failures,
		RowsProduced:     rows,
		AnalysisDuration: duration,
	}, nil
}
