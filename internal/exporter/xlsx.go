package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"qmtcli/pkg/contracts/domain"
)

// SheetName is the worksheet that holds the combined table
const SheetName = "Sheet1"

// ExportCombinedXLSX writes every table into a single worksheet in ascending
// code order. Numeric columns are stored as numbers, not text.
func (e *BarExporter) ExportCombinedXLSX(tables map[string]*domain.RecordTable, layout domain.BarLayout, filePath string) (string, error) {
	fullPath := e.csvWriter.resolvePath(filePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fullPath, fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fullPath, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := Headers(layout)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fullPath, fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, code := range SortedCodes(tables) {
		for _, bar := range tables[code].Bars {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return fullPath, err
			}
			values := []interface{}{
				bar.Code,
				formatTime(bar, layout),
				bar.Open,
				bar.High,
				bar.Low,
				bar.Close,
				bar.Volume,
				bar.Amount,
				bar.PctChange,
			}
			if err := sw.SetRow(cell, values); err != nil {
				return fullPath, fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}
	}

	if err := sw.Flush(); err != nil {
		return fullPath, fmt.Errorf("failed to flush worksheet: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fullPath, fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Combined workbook written",
		"path", fullPath,
		"rows", row-2)
	return fullPath, nil
}
