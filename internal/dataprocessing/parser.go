package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"qmtcli/internal/codec"
	"qmtcli/internal/config"
	apperrors "qmtcli/internal/errors"
	"qmtcli/internal/exporter"
	"qmtcli/internal/files"
	"qmtcli/internal/infrastructure"
	"qmtcli/pkg/contracts/domain"
)

// Parser is the batch driver: it reads DAT files, decodes them and writes CSV
type Parser struct {
	opts      Options
	manager   *files.Manager
	discovery *files.Discovery
	exporter  *exporter.BarExporter
	metrics   *infrastructure.ParseMetrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewParser creates a parser. paths may be nil, in which case relative paths
// are used as given. telemetry may be nil to disable metrics and tracing.
func NewParser(opts Options, paths *config.Paths, logger *slog.Logger, telemetry *infrastructure.TelemetryProviders) (*Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "parser")

	meter := metricnoop.NewMeterProvider().Meter(infrastructure.MeterName)
	tracer := tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	if telemetry != nil {
		meter = telemetry.Meter
		tracer = telemetry.Tracer
	}

	metrics, err := infrastructure.NewParseMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create parse metrics: %w", err)
	}

	basePath := ""
	if paths != nil {
		basePath = paths.DataDir
	}

	opts = opts.normalized()
	return &Parser{
		opts:      opts,
		manager:   files.NewManager(paths, logger),
		discovery: files.NewDiscovery(basePath),
		exporter:  exporter.NewBarExporter(paths, opts.BOM, logger),
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}, nil
}

// Options returns the effective options
func (p *Parser) Options() Options {
	return p.opts
}

// ParseSingleStock decodes one DAT file and writes it to outputPath as CSV.
// An empty outputPath skips the write. The header row is written even when
// the table has no bars.
func (p *Parser) ParseSingleStock(ctx context.Context, inputPath, outputPath string) (*domain.RecordTable, error) {
	return p.parseFile(ctx, inputPath, outputPath, p.layoutFor(inputPath))
}

func (p *Parser) parseFile(ctx context.Context, inputPath, outputPath string, layout domain.BarLayout) (*domain.RecordTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code := files.CodeFromPath(inputPath)
	attrs := infrastructure.FileAttributes(code, string(layout))
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "parse_file", trace.WithAttributes(
		append(attrs, attribute.String("path", inputPath))...))
	defer span.End()

	table, err := p.decodeAndExport(ctx, code, layout, inputPath, outputPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.metrics.FilesFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("records", table.Len()),
		attribute.Int("skipped", table.Skipped))
	p.metrics.FilesParsed.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.metrics.RecordsDecoded.Add(ctx, int64(table.Len()), metric.WithAttributes(attrs...))
	p.metrics.RecordsSkipped.Add(ctx, int64(table.Skipped), metric.WithAttributes(attrs...))
	p.metrics.ParseDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))

	return table, nil
}

func (p *Parser) decodeAndExport(ctx context.Context, code string, layout domain.BarLayout, inputPath, outputPath string) (*domain.RecordTable, error) {
	data, err := p.manager.ReadFile(inputPath)
	if err != nil {
		return nil, apperrors.NewFileReadError(inputPath, err)
	}

	table, err := DecodeBytes(code, layout, data, p.opts.TrailingChunkPolicy)
	if err != nil {
		return nil, apperrors.WithPath(err, inputPath)
	}

	if table.TrailingBytes > 0 {
		warn := apperrors.NewTrailingChunkError(inputPath, int64(table.Chunks*codec.RecordSize), table.TrailingBytes)
		infrastructure.WithError(p.logger, warn).WarnContext(ctx, "Skipping trailing partial chunk",
			slog.String("code", code),
			slog.Int("trailing_bytes", table.TrailingBytes))
	}
	if table.Skipped > 0 {
		p.logger.DebugContext(ctx, "Dropped implausible records",
			slog.String("code", code),
			slog.Int("skipped", table.Skipped),
			slog.Int("chunks", table.Chunks))
	}

	if outputPath != "" {
		written, err := p.exporter.ExportTable(table, outputPath)
		if err != nil {
			return nil, apperrors.NewWriteError(written, err)
		}
		p.logger.DebugContext(ctx, "CSV written",
			slog.String("code", code),
			slog.String("path", written),
			slog.Int("records", table.Len()))
	}

	return table, nil
}

// layoutFor returns the forced layout or the one detected from path
func (p *Parser) layoutFor(path string) domain.BarLayout {
	if p.opts.Layout != "" {
		return p.opts.Layout
	}
	return DetectLayout(path)
}
