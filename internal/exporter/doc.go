// Package exporter writes decoded QMT record tables to disk.
//
// CSVWriter is the low-level writer with optional UTF-8 BOM and a streaming
// mode for large outputs. BarExporter formats bars into the nine-column
// layout used for every per-security file and for the combined
// all_stocks_data.csv. ExportCombinedXLSX produces the same combined table as
// an Excel workbook.
//
// Example usage:
//
//	exp := exporter.NewBarExporter(paths, false, logger)
//	path, err := exp.ExportTable(table, "shenzhen_daily/000001.csv")
package exporter
