package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"qmtcli/internal/config"
	"qmtcli/internal/dataprocessing"
	"qmtcli/internal/files"
	"qmtcli/internal/infrastructure"
	"qmtcli/internal/validation"
	"qmtcli/pkg/contracts"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// cliFlags holds the parsed command line
type cliFlags struct {
	in         string
	out        string
	all        bool
	combined   bool
	xlsx       bool
	strict     bool
	workers    int
	layout     string
	configFile string
	version    bool

	set map[string]bool // flags given explicitly
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("datparser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.in, "in", "", "DAT file or directory of DAT files to convert (default: all markets under the data dir)")
	fs.StringVar(&f.out, "out", "", "output CSV file (with a file -in) or output directory (default: configured output dir)")
	fs.BoolVar(&f.all, "all", false, "convert the szdayK, shdayK and sh5mK market directories under -in or the data dir")
	fs.BoolVar(&f.combined, "combined", true, "write all_stocks_data.csv for each directory")
	fs.BoolVar(&f.xlsx, "xlsx", false, "also write all_stocks_data.xlsx for each directory")
	fs.BoolVar(&f.strict, "strict", false, "treat a trailing partial record as a decode error")
	fs.IntVar(&f.workers, "workers", 1, "number of files converted in parallel")
	fs.StringVar(&f.layout, "layout", "", "force the record layout (daily or intraday) instead of detecting it from the path")
	fs.StringVar(&f.configFile, "config", "", "path to a YAML config file")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(cfg *config.Config, f *cliFlags) {
	if f.set["combined"] {
		cfg.Export.Combined = f.combined
	}
	if f.set["xlsx"] {
		cfg.Export.XLSX = f.xlsx
	}
	if f.set["strict"] {
		cfg.Parser.TrailingChunkPolicy = config.TrailingChunkSkip
		if f.strict {
			cfg.Parser.TrailingChunkPolicy = config.TrailingChunkStrict
		}
	}
	if f.set["workers"] {
		cfg.Parser.Workers = f.workers
	}
	if f.set["layout"] {
		cfg.Parser.Layout = f.layout
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if f.version {
		fmt.Fprintln(stderr, contracts.GetFullVersionString())
		return exitOK
	}

	cfg, err := config.Load(f.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitError
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid options: %v\n", err)
		return exitUsage
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitError
	}
	defer infrastructure.CloseLogFile()

	ctx, runID := infrastructure.WithNewRunID(ctx)
	logger = infrastructure.WithComponent(logger, "datparser")

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve paths", slog.String("error", err.Error()))
		return exitError
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.ErrorContext(ctx, "Failed to create required directories", slog.String("error", err.Error()))
		return exitError
	}
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitError
	}
	defer func() {
		telemetry.LogSnapshot(ctx)
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	parser, err := dataprocessing.NewParser(dataprocessing.OptionsFromConfig(cfg), paths, logger, telemetry)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create parser", slog.String("error", err.Error()))
		return exitError
	}

	logger.InfoContext(ctx, "Starting QMT DAT conversion",
		slog.String("run_id", runID),
		slog.String("version", contracts.GetVersionString()),
		slog.String("git_commit", contracts.GitCommit),
		slog.String("in", f.in),
		slog.String("out", f.out),
		slog.Bool("all", f.all),
		slog.Int("workers", cfg.Parser.Workers),
		slog.String("trailing_chunk_policy", string(cfg.Parser.TrailingChunkPolicy)))

	in, out := absOrEmpty(f.in), absOrEmpty(f.out)
	validator := validation.NewFileValidator(logger)

	switch {
	case f.all || in == "":
		return runAll(ctx, parser, logger, firstNonEmpty(in, paths.DataDir), firstNonEmpty(out, paths.OutputDir))
	case isDir(in):
		return runDirectory(ctx, parser, validator, logger, in, firstNonEmpty(out, paths.OutputDir))
	default:
		if out == "" {
			out = paths.GetOutputPath(config.CSVFileName(files.CodeFromPath(in)))
		}
		return runFile(ctx, parser, validator, logger, in, out)
	}
}

func runFile(ctx context.Context, parser *dataprocessing.Parser, v *validation.FileValidator, logger *slog.Logger, in, out string) int {
	if err := v.ValidateDATFile(in); err != nil {
		return exitError
	}

	table, err := parser.ParseSingleStock(ctx, in, out)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Conversion failed", slog.String("path", in))
		return exitError
	}

	logger.InfoContext(ctx, "Conversion complete",
		slog.String("code", table.Code),
		slog.String("layout", string(table.Layout)),
		slog.Int("records", table.Len()),
		slog.Int("skipped", table.Skipped),
		slog.String("output", out))
	return exitOK
}

func runDirectory(ctx context.Context, parser *dataprocessing.Parser, v *validation.FileValidator, logger *slog.Logger, in, out string) int {
	if _, err := v.ValidateInputDirectory(in); err != nil {
		return exitError
	}
	if err := v.ValidateOutputDirectory(out); err != nil {
		return exitError
	}

	tables, err := parser.ParseDirectory(ctx, in, out)
	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Directory conversion failed", slog.String("directory", in))
		return exitError
	}

	logger.InfoContext(ctx, "Conversion complete",
		slog.Int("securities", len(tables)),
		slog.String("output", out))
	return exitOK
}

func runAll(ctx context.Context, parser *dataprocessing.Parser, logger *slog.Logger, root, out string) int {
	all, err := parser.ParseAllStocks(ctx, root, out)

	total := 0
	for market, tables := range all {
		total += len(tables)
		logger.InfoContext(ctx, "Market converted",
			slog.String("market", market),
			slog.Int("securities", len(tables)))
	}

	if err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Conversion finished with errors",
			slog.Int("securities", total))
		return exitError
	}

	logger.InfoContext(ctx, "Conversion complete",
		slog.Int("markets", len(all)),
		slog.Int("securities", total),
		slog.String("output", out))
	return exitOK
}

func absOrEmpty(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
