package config

import "qmtcli/pkg/contracts"

// Application constants
const (
	AppName    = "QMT DAT Converter"
	AppVersion = contracts.Version

	// EnvPrefix namespaces all environment variables (QMT_PARSER_WORKERS, ...)
	EnvPrefix  = "QMT"
	DotEnvFile = ".env"

	// File Paths (relative to the working directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "output"
	DefaultLogsDir   = "logs"

	// File naming
	DATExtension     = ".DAT"
	CSVExtension     = ".csv"
	XLSXExtension    = ".xlsx"
	CombinedFileBase = "all_stocks_data"

	// Batch processing
	DefaultProgressEvery = 100
)

// TrailingChunkPolicy decides what happens to bytes after the last complete record
type TrailingChunkPolicy string

const (
	// TrailingChunkSkip drops the partial chunk and logs a warning
	TrailingChunkSkip TrailingChunkPolicy = "skip"
	// TrailingChunkStrict fails the file with a decode error
	TrailingChunkStrict TrailingChunkPolicy = "strict"
)
