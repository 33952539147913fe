// Package dataprocessing converts QMT DAT files into record tables and CSV
// output.
//
// # Architecture
//
// DecodeBytes partitions the contents of one file into fixed-width chunks and
// runs each through the codec decoder, threading the previous close from one
// record to the next. Parser wraps it with file access, CSV export, logging,
// metrics and tracing:
//
//  1. ParseSingleStock: one DAT file to one CSV
//  2. ParseDirectory: every DAT file of a directory, plus the combined file
//  3. ParseAllStocks: the szdayK, shdayK and sh5mK market directories
//
// # Usage
//
//	parser, err := dataprocessing.NewParser(dataprocessing.OptionsFromConfig(cfg), paths, logger, telemetry)
//	if err != nil {
//	    return err
//	}
//	table, err := parser.ParseSingleStock(ctx, "data/szdayK/000001.DAT", "output/000001.csv")
//
// # Error Handling
//
// Single-file failures are returned as *errors.ParseError values. Directory
// runs log each failed file and carry on with the rest; the failed file is
// left out of the result map.
//
// # Data Flow
//
//	DAT bytes → 64-byte chunks → codec.Decoder → RecordTable → CSV
package dataprocessing
