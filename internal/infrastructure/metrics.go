package infrastructure

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ParseMetrics are the instruments recorded by the batch driver
type ParseMetrics struct {
	FilesParsed    metric.Int64Counter
	FilesFailed    metric.Int64Counter
	RecordsDecoded metric.Int64Counter
	RecordsSkipped metric.Int64Counter
	ParseDuration  metric.Float64Histogram
}

// NewParseMetrics creates the parse instruments on meter
func NewParseMetrics(meter metric.Meter) (*ParseMetrics, error) {
	filesParsed, err := meter.Int64Counter(
		"qmt_files_parsed",
		metric.WithDescription("Number of DAT files converted successfully"),
	)
	if err != nil {
		return nil, fmt.Errorf("files parsed counter: %w", err)
	}

	filesFailed, err := meter.Int64Counter(
		"qmt_files_failed",
		metric.WithDescription("Number of DAT files that failed to convert"),
	)
	if err != nil {
		return nil, fmt.Errorf("files failed counter: %w", err)
	}

	recordsDecoded, err := meter.Int64Counter(
		"qmt_records_decoded",
		metric.WithDescription("Number of records decoded into output rows"),
	)
	if err != nil {
		return nil, fmt.Errorf("records decoded counter: %w", err)
	}

	recordsSkipped, err := meter.Int64Counter(
		"qmt_records_skipped",
		metric.WithDescription("Number of records dropped by the plausibility filter"),
	)
	if err != nil {
		return nil, fmt.Errorf("records skipped counter: %w", err)
	}

	parseDuration, err := meter.Float64Histogram(
		"qmt_file_parse_duration",
		metric.WithDescription("Time to decode and write one DAT file"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("parse duration histogram: %w", err)
	}

	return &ParseMetrics{
		FilesParsed:    filesParsed,
		FilesFailed:    filesFailed,
		RecordsDecoded: recordsDecoded,
		RecordsSkipped: recordsSkipped,
		ParseDuration:  parseDuration,
	}, nil
}
