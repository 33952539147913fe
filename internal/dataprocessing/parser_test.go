package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmtcli/internal/config"
	apperrors "qmtcli/internal/errors"
	"qmtcli/internal/infrastructure"
	"qmtcli/pkg/contracts/domain"
)

const dailyHeader = "code,date,open,high,low,close,volume,amount,pct_change"

func TestNewParser_Defaults(t *testing.T) {
	parser, _ := newTestParser(t, Options{})

	opts := parser.Options()
	assert.Equal(t, config.TrailingChunkSkip, opts.TrailingChunkPolicy)
	assert.Equal(t, 1, opts.Workers)
	assert.Equal(t, config.DefaultProgressEvery, opts.ProgressEvery)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Parser.TrailingChunkPolicy = config.TrailingChunkStrict
	cfg.Parser.Workers = 4
	cfg.Parser.Layout = "intraday"
	cfg.Export.XLSX = true

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, config.TrailingChunkStrict, opts.TrailingChunkPolicy)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, domain.BarLayoutIntraday, opts.Layout)
	assert.True(t, opts.XLSX)
	assert.True(t, opts.Combined)

	assert.Equal(t, config.TrailingChunkSkip, OptionsFromConfig(config.Default()).TrailingChunkPolicy)
}

func TestParseSingleStock(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "szdayK"), "000001.DAT", twoDayFile())
	output := filepath.Join(dir, "out", "000001.csv")

	parser, _ := newTestParser(t, Options{})
	table, err := parser.ParseSingleStock(context.Background(), input, output)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, domain.BarLayoutDaily, table.Layout)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, dailyHeader, lines[0])
	assert.Equal(t, "000001,2024-01-02,10.50,10.60,10.40,10.57,123400,5678900.00,0.00", lines[1])
	assert.Equal(t, "000001,2024-01-03,10.60,10.90,10.50,10.86,123400,5678900.00,2.74", lines[2])
}

func TestParseSingleStock_Intraday(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sh5mK"), "600000.DAT", twoDayFile())
	output := filepath.Join(dir, "600000.csv")

	parser, _ := newTestParser(t, Options{})
	table, err := parser.ParseSingleStock(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, domain.BarLayoutIntraday, table.Layout)
	assert.Equal(t, int64(1234), table.Bars[0].Volume)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "code,datetime,"))
	assert.Contains(t, string(content), "600000,2024-01-02 00:00:00,")
}

func TestParseSingleStock_ForcedLayout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "sh5mK"), "600000.DAT", twoDayFile())

	parser, _ := newTestParser(t, Options{Layout: domain.BarLayoutDaily})
	table, err := parser.ParseSingleStock(context.Background(), input, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BarLayoutDaily, table.Layout)
}

func TestParseSingleStock_MissingFile(t *testing.T) {
	dir := t.TempDir()
	parser, _ := newTestParser(t, Options{})

	_, err := parser.ParseSingleStock(context.Background(), filepath.Join(dir, "missing.DAT"), filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFileRead))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoFileExists(t, filepath.Join(dir, "missing.csv"))
}

func TestParseSingleStock_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "000002.DAT", nil)
	output := filepath.Join(dir, "000002.csv")

	parser, _ := newTestParser(t, Options{})
	table, err := parser.ParseSingleStock(context.Background(), input, output)
	require.NoError(t, err)
	assert.True(t, table.Empty())

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, dailyHeader+"\n", string(content))
}

func TestParseSingleStock_NoOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "000001.DAT", twoDayFile())

	parser, _ := newTestParser(t, Options{})
	table, err := parser.ParseSingleStock(context.Background(), input, "")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestParseSingleStock_TrailingChunk(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "000001.DAT", append(twoDayFile(), 1, 2, 3))

	t.Run("skip policy warns", func(t *testing.T) {
		parser, logs := newTestParser(t, Options{})
		table, err := parser.ParseSingleStock(context.Background(), input, "")
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, 3, table.TrailingBytes)
		warnings := logs.GetRecordsByLevel(slog.LevelWarn)
		require.Len(t, warnings, 1)
		assert.Equal(t, "Skipping trailing partial chunk", warnings[0].Message)
		assert.Contains(t, warnings[0].Attrs["error"], "3 trailing bytes")
	})

	t.Run("strict policy fails", func(t *testing.T) {
		parser, _ := newTestParser(t, Options{TrailingChunkPolicy: config.TrailingChunkStrict})
		_, err := parser.ParseSingleStock(context.Background(), input, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrDecode))
		assert.True(t, errors.Is(err, apperrors.ErrTrailingChunk))
		assert.Contains(t, err.Error(), input)
	})
}

func TestParseSingleStock_Truncated(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "000003.DAT", twoDayFile()[:40])
	output := filepath.Join(dir, "000003.csv")

	parser, _ := newTestParser(t, Options{})
	_, err := parser.ParseSingleStock(context.Background(), input, output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDecode))

	var pErr *apperrors.ParseError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, input, pErr.Path)
	assert.NoFileExists(t, output)
}

func TestParseSingleStock_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "000001.DAT", twoDayFile())
	blocker := writeFile(t, dir, "blocker", []byte("x"))

	parser, _ := newTestParser(t, Options{})
	_, err := parser.ParseSingleStock(context.Background(), input, filepath.Join(blocker, "000001.csv"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeWrite, apperrors.GetErrorType(err))
}

func TestParseSingleStock_Cancelled(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "000001.DAT", twoDayFile())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parser, _ := newTestParser(t, Options{})
	_, err := parser.ParseSingleStock(ctx, input, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSingleStock_Metrics(t *testing.T) {
	ctx := context.Background()
	logger := infrastructure.NewLogger("error", &bytes.Buffer{})
	telemetry, err := infrastructure.InitializeTelemetry(ctx, config.TelemetryConfig{Metrics: true}, logger)
	require.NoError(t, err)
	defer telemetry.Shutdown(ctx)

	parser, err := NewParser(Options{}, nil, logger, telemetry)
	require.NoError(t, err)

	dir := t.TempDir()
	good := writeFile(t, dir, "000001.DAT", twoDayFile())
	bad := writeFile(t, dir, "000002.DAT", make([]byte, 10))

	_, err = parser.ParseSingleStock(ctx, good, "")
	require.NoError(t, err)
	_, err = parser.ParseSingleStock(ctx, bad, "")
	require.Error(t, err)

	snap, err := telemetry.Snapshot()
	require.NoError(t, err)

	find := func(prefix string) float64 {
		for name, v := range snap {
			if strings.HasPrefix(name, prefix) {
				return v
			}
		}
		t.Fatalf("metric %s missing from %v", prefix, snap)
		return 0
	}
	assert.Equal(t, 1.0, find("qmt_files_parsed"))
	assert.Equal(t, 1.0, find("qmt_files_failed"))
	assert.Equal(t, 2.0, find("qmt_records_decoded"))
}
