package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"qmtcli/internal/config"
)

const (
	ServiceName = "qmt-dat-converter"
	MeterName   = "qmtcli"
)

// TelemetryProviders holds the OpenTelemetry providers for one process.
// Meter and Tracer are always usable; they are no-ops when disabled.
type TelemetryProviders struct {
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
	Registry       *prometheus.Registry
	Meter          metric.Meter
	Tracer         trace.Tracer

	traceFile *os.File
	logger    *slog.Logger
}

// InitializeTelemetry sets up metrics on a private Prometheus registry and,
// when enabled, span export as JSON lines to cfg.TraceFile.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *slog.Logger) (*TelemetryProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}

	providers := &TelemetryProviders{
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		logger: logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	if cfg.Metrics {
		if err := providers.initializeMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	if cfg.Tracing {
		if err := providers.initializeTracing(cfg.TraceFile, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.Bool("metrics_enabled", cfg.Metrics),
		slog.Bool("tracing_enabled", cfg.Tracing))

	return providers, nil
}

func (p *TelemetryProviders) initializeMetrics(res *resource.Resource) error {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	p.Registry = registry
	p.MeterProvider = mp
	p.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (p *TelemetryProviders) initializeTracing(path string, res *resource.Resource) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open trace file %s: %w", path, err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	p.traceFile = file
	p.TracerProvider = tp
	p.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

// Snapshot gathers the Prometheus registry and returns one value per metric
// family: the summed value for counters and gauges, the sample count for
// histograms. It returns an empty map when metrics are disabled.
func (p *TelemetryProviders) Snapshot() (map[string]float64, error) {
	out := make(map[string]float64)
	if p.Registry == nil {
		return out, nil
	}

	families, err := p.Registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		out[mf.GetName()] = total
	}
	return out, nil
}

// LogSnapshot logs the current metric values, sorted by name.
func (p *TelemetryProviders) LogSnapshot(ctx context.Context) {
	snap, err := p.Snapshot()
	if err != nil {
		p.logger.WarnContext(ctx, "Could not gather metrics", slog.String("error", err.Error()))
		return
	}
	if len(snap) == 0 {
		return
	}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]any, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, slog.Float64(name, snap[name]))
	}
	p.logger.InfoContext(ctx, "Run metrics", slog.Group("metrics", attrs...))
}

// Shutdown flushes pending spans and releases the providers
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
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
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, err)
		}
		p.traceFile = nil
	}
	return errors.Join(errs...)
}

// FileAttributes returns the span/metric attributes identifying a parsed file
func FileAttributes(code string, layout string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("code", code),
		attribute.String("layout", layout),
	}
}
