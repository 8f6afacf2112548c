package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "slapulse"
	ServiceVersion = "1.0.0"
	MeterName      = "slapulse"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "stdout", "none"
	MetricExporter string // "prometheus", "none"
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	traceExporter := "none"
	if env == "development" && os.Getenv("SLA_TRACE_STDOUT") == "true" {
		traceExporter = "stdout"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		TraceExporter:  traceExporter,
		MetricExporter: "prometheus",
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes tracing and metrics. Disabled exporters fall back
// to no-op providers so callers never have to nil-check Tracer or Meter.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = GetLogger()
	}

	ctx := context.Background()

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	)

	providers := &OTelProviders{Logger: logger}

	if err := initializeTracing(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := initializeMetrics(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "OpenTelemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return providers, nil
}

func initializeTracing(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var opts []sdktrace.TracerProviderOption
	opts = append(opts,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case "none", "":
		// spans are still created so trace ids exist for log correlation
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))
	otel.SetTracerProvider(tp)

	return nil
}

func initializeMetrics(cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	switch cfg.MetricExporter {
	case "prometheus":
		registry := promclient.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}

		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		providers.MeterProvider = mp
		providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))
		otel.SetMeterProvider(mp)
	case "none", "":
		providers.Meter = noop.NewMeterProvider().Meter(MeterName)
		providers.PrometheusHTTP = http.NotFoundHandler()
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	return nil
}

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Dashboard metrics
	ViewRequestsTotal metric.Int64Counter
	ViewBuildDuration metric.Float64Histogram

	// Pipeline metrics
	ProcessingRunsTotal metric.Int64Counter
	ProcessingDuration  metric.Float64Histogram
	RecordsProcessed    metric.Int64Counter
	UploadsTotal        metric.Int64Counter
	SnapshotRecords     metric.Int64Gauge

	SystemErrors metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}

	var (
		m    BusinessMetrics
		err  error
		errs []error
	)

	m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	errs = append(errs, err)

	m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.HTTPActiveRequests, err = meter.Int64UpDownCounter("http_active_requests",
		metric.WithDescription("Number of active HTTP requests"))
	errs = append(errs, err)

	m.ViewRequestsTotal, err = meter.Int64Counter("dashboard_view_requests_total",
		metric.WithDescription("Dashboard view requests by view and outcome"))
	errs = append(errs, err)

	m.ViewBuildDuration, err = meter.Float64Histogram("dashboard_view_build_duration_seconds",
		metric.WithDescription("Time spent building a dashboard view"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.ProcessingRunsTotal, err = meter.Int64Counter("processing_runs_total",
		metric.WithDescription("Spreadsheet processing runs by outcome"))
	errs = append(errs, err)

	m.ProcessingDuration, err = meter.Float64Histogram("processing_duration_seconds",
		metric.WithDescription("Spreadsheet processing duration in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.RecordsProcessed, err = meter.Int64Counter("records_processed_total",
		metric.WithDescription("Package records produced by processing runs"))
	errs = append(errs, err)

	m.UploadsTotal, err = meter.Int64Counter("uploads_total",
		metric.WithDescription("Spreadsheet uploads by file type and outcome"))
	errs = append(errs, err)

	m.SnapshotRecords, err = meter.Int64Gauge("snapshot_records",
		metric.WithDescription("Records in the active snapshot"))
	errs = append(errs, err)

	m.SystemErrors, err = meter.Int64Counter("system_errors_total",
		metric.WithDescription("Total number of system errors"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// Shutdown gracefully shuts down OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %w", errors.Join(errs...))
	}

	p.Logger.InfoContext(ctx, "OpenTelemetry shutdown complete")
	return nil
}

func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// TraceIDFromContext extracts the OTel trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// RecordViewMetrics records one dashboard view build.
func RecordViewMetrics(ctx context.Context, metrics *BusinessMetrics, view string, found bool, duration time.Duration) {
	if metrics == nil {
		return
	}

	outcome := "ok"
	if !found {
		outcome = "no_data"
	}

	metrics.ViewRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("view", view),
		attribute.String("outcome", outcome),
	))
	metrics.ViewBuildDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("view", view),
	))
}

// RecordProcessingMetrics records the outcome of one processing run.
func RecordProcessingMetrics(ctx context.Context, metrics *BusinessMetrics, runID string, duration time.Duration, records int, err error) {
	if metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
		metrics.SystemErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("component", "processing"),
			attribute.String("error.type", fmt.Sprintf("%T", err)),
		))
	}

	metrics.ProcessingRunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	metrics.ProcessingDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))

	if err == nil {
		metrics.RecordsProcessed.Add(ctx, int64(records))
		metrics.SnapshotRecords.Record(ctx, int64(records))
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("processing.metrics_recorded",
			trace.WithAttributes(
				attribute.String("run.id", runID),
				attribute.Bool("success", err == nil),
				attribute.Int("records", records),
				attribute.Float64("duration_seconds", duration.Seconds()),
			),
		)
	}
}

// RecordUpload records an upload attempt for the given file type.
func RecordUpload(ctx context.Context, metrics *BusinessMetrics, fileType string, success bool) {
	if metrics == nil {
		return
	}

	status := "accepted"
	if !success {
		status = "rejected"
	}
	metrics.UploadsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("file_type", fileType),
		attribute.String("status", status),
	))
}
