package infrastructure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"

	"qmtcli/internal/config"
)

func findMetric(snap map[string]float64, prefix string) (float64, bool) {
	for name, v := range snap {
		if strings.HasPrefix(name, prefix) {
			return v, true
		}
	}
	return 0, false
}

func TestInitializeTelemetry_Disabled(t *testing.T) {
	providers, err := InitializeTelemetry(context.Background(), config.TelemetryConfig{}, NewLogger("error", &bytes.Buffer{}))
	require.NoError(t, err)

	assert.Nil(t, providers.Registry)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.TracerProvider)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Tracer)

	// no-op instruments still work
	m, err := NewParseMetrics(providers.Meter)
	require.NoError(t, err)
	m.FilesParsed.Add(context.Background(), 1)

	snap, err := providers.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeTelemetry_Metrics(t *testing.T) {
	ctx := context.Background()
	providers, err := InitializeTelemetry(ctx, config.TelemetryConfig{Metrics: true}, NewLogger("error", &bytes.Buffer{}))
	require.NoError(t, err)
	defer providers.Shutdown(ctx)

	require.NotNil(t, providers.Registry)

	m, err := NewParseMetrics(providers.Meter)
	require.NoError(t, err)

	attrs := metric.WithAttributes(FileAttributes("000001", "daily")...)
	m.FilesParsed.Add(ctx, 2, attrs)
	m.RecordsDecoded.Add(ctx, 250, attrs)
	m.ParseDuration.Record(ctx, 0.01, attrs)

	snap, err := providers.Snapshot()
	require.NoError(t, err)

	parsed, ok := findMetric(snap, "qmt_files_parsed")
	require.True(t, ok, "files parsed metric missing from %v", snap)
	assert.Equal(t, 2.0, parsed)

	decoded, ok := findMetric(snap, "qmt_records_decoded")
	require.True(t, ok)
	assert.Equal(t, 250.0, decoded)

	samples, ok := findMetric(snap, "qmt_file_parse_duration")
	require.True(t, ok)
	assert.Equal(t, 1.0, samples)
}

func TestInitializeTelemetry_Tracing(t *testing.T) {
	ctx := context.Background()
	traceFile := filepath.Join(t.TempDir(), "traces", "spans.json")

	providers, err := InitializeTelemetry(ctx, config.TelemetryConfig{Tracing: true, TraceFile: traceFile}, NewLogger("error", &bytes.Buffer{}))
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	_, span := providers.Tracer.Start(ctx, "parse_file")
	span.End()

	require.NoError(t, providers.Shutdown(ctx))

	content, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "parse_file")
}

func TestLogSnapshot(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	providers, err := InitializeTelemetry(ctx, config.TelemetryConfig{Metrics: true}, NewLogger("info", &buf))
	require.NoError(t, err)
	defer providers.Shutdown(ctx)

	m, err := NewParseMetrics(providers.Meter)
	require.NoError(t, err)
	m.FilesFailed.Add(ctx, 1)

	providers.LogSnapshot(ctx)
	assert.Contains(t, buf.String(), "Run metrics")
	assert.Contains(t, buf.String(), "qmt_files_failed")
}
