package exporter

import (
	"fmt"
	"log/slog"
	"sort"

	"qmtcli/internal/config"
	"qmtcli/pkg/contracts/domain"
)

// BarExporter writes decoded record tables as CSV
type BarExporter struct {
	csvWriter *CSVWriter
	bom       bool
	logger    *slog.Logger
}

// NewBarExporter creates a new bar exporter
func NewBarExporter(paths *config.Paths, bom bool, logger *slog.Logger) *BarExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BarExporter{
		csvWriter: NewCSVWriter(paths, logger),
		bom:       bom,
		logger:    logger,
	}
}

// Headers returns the nine CSV column names for a layout
func Headers(layout domain.BarLayout) []string {
	return []string{
		"code",
		layout.TimeColumn(),
		"open",
		"high",
		"low",
		"close",
		"volume",
		"amount",
		"pct_change",
	}
}

// BarToCSVRow converts a bar into a CSV row matching Headers
func BarToCSVRow(bar domain.Bar, layout domain.BarLayout) []string {
	return []string{
		bar.Code,
		formatTime(bar, layout),
		formatFloat(bar.Open),
		formatFloat(bar.High),
		formatFloat(bar.Low),
		formatFloat(bar.Close),
		formatInt(bar.Volume),
		formatFloat(bar.Amount),
		formatFloat(bar.PctChange),
	}
}

// ExportTable writes one table to filePath. The header is written even when
// the table has no bars. It returns the resolved output path.
func (e *BarExporter) ExportTable(table *domain.RecordTable, filePath string) (string, error) {
	if table == nil {
		return "", fmt.Errorf("nil record table")
	}

	records := make([][]string, 0, table.Len())
	for _, bar := range table.Bars {
		records = append(records, BarToCSVRow(bar, table.Layout))
	}

	return e.csvWriter.WriteCSV(filePath, WriteOptions{
		Headers:   Headers(table.Layout),
		Records:   records,
		BOMPrefix: e.bom,
	})
}

// ExportCombined streams every table into one CSV in ascending code order and
// returns the resolved path and the number of data rows written
func (e *BarExporter) ExportCombined(tables map[string]*domain.RecordTable, layout domain.BarLayout, filePath string) (string, int, error) {
	stream, err := e.csvWriter.CreateStreamWriter(filePath, Headers(layout), e.bom)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create combined file: %w", err)
	}

	for _, code := range SortedCodes(tables) {
		for _, bar := range tables[code].Bars {
			if err := stream.WriteRecord(BarToCSVRow(bar, layout)); err != nil {
				stream.Close()
				return stream.Path(), stream.Rows(), fmt.Errorf("failed to write %s: %w", code, err)
			}
		}
	}

	if err := stream.Close(); err != nil {
		return stream.Path(), stream.Rows(), fmt.Errorf("failed to close combined file: %w", err)
	}

	e.logger.Info("Combined CSV written",
		slog.String("path", stream.Path()),
		slog.Int("tables", len(tables)),
		slog.Int("rows", stream.Rows()))

	return stream.Path(), stream.Rows(), nil
}

// SortedCodes returns the keys of tables in ascending order
func SortedCodes(tables map[string]*domain.RecordTable) []string {
	codes := make([]string, 0, len(tables))
	for code := range tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
