// Package config provides centralized configuration management for the DAT
// converter. It handles loading configuration from multiple sources, validation,
// and provides a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern QMT_<SECTION>_<FIELD>:
//
//	QMT_LOGGING_LEVEL=debug
//	QMT_PATHS_OUTPUT_DIR=/srv/qmt/csv
//	QMT_PARSER_TRAILING_CHUNK_POLICY=strict
//	QMT_PARSER_WORKERS=4
//	QMT_EXPORT_XLSX=true
//
// # Path Management
//
// Paths resolves the configured directories and knows the canonical QMT data
// layout (szdayK, shdayK, sh5mK) through MarketDirs.
//
// # Validation
//
// All configuration is validated at load time with struct tags, so an invalid
// policy or worker count is rejected before any file is touched.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
