package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"qmtcli/internal/config"
	apperrors "qmtcli/internal/errors"
	"qmtcli/internal/exporter"
	"qmtcli/internal/files"
	"qmtcli/internal/infrastructure"
	"qmtcli/pkg/contracts/domain"
)

// ParseDirectory converts every DAT file directly under inputDir into
// outputDir/<code>.csv and returns the decoded tables keyed by code.
//
// A file that fails to parse is logged and left out of the result; the run
// continues with the remaining files. An error is returned only when
// inputDir cannot be listed, outputDir cannot be created, or ctx is
// cancelled, in which case the tables parsed so far are still returned.
func (p *Parser) ParseDirectory(ctx context.Context, inputDir, outputDir string) (map[string]*domain.RecordTable, error) {
	return p.parseDirectory(ctx, inputDir, outputDir, p.opts.Layout)
}

func (p *Parser) parseDirectory(ctx context.Context, inputDir, outputDir string, layout domain.BarLayout) (map[string]*domain.RecordTable, error) {
	ctx, span := p.tracer.Start(ctx, "parse_directory", trace.WithAttributes(
		attribute.String("input_dir", inputDir),
		attribute.String("output_dir", outputDir)))
	defer span.End()

	datFiles, err := p.discovery.FindDATFiles(inputDir)
	if err != nil {
		return nil, apperrors.NewFileReadError(inputDir, err)
	}

	outDir, err := p.manager.EnsureDirectory(outputDir)
	if err != nil {
		return nil, apperrors.NewWriteError(outDir, err)
	}

	results := make(map[string]*domain.RecordTable, len(datFiles))
	if len(datFiles) == 0 {
		p.logger.WarnContext(ctx, "No DAT files found", slog.String("directory", inputDir))
		return results, nil
	}

	p.logger.InfoContext(ctx, "Parsing directory",
		slog.String("directory", inputDir),
		slog.Int("files", len(datFiles)),
		slog.Int64("bytes", files.TotalSize(datFiles)),
		slog.Int("workers", p.opts.Workers))

	progress := NewProgressTracker(inputDir, len(datFiles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for _, f := range datFiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fileLayout := layout
			if fileLayout == "" {
				fileLayout = DetectLayout(f.Path)
			}

			table, err := p.parseFile(gctx, f.Path, filepath.Join(outDir, config.CSVFileName(f.Code)), fileLayout)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				infrastructure.WithError(p.logger, err).WarnContext(gctx, "Failed to parse file",
					slog.String("code", f.Code),
					slog.String("path", f.Path),
					slog.String("error_type", string(apperrors.GetErrorType(err))))
			} else {
				mu.Lock()
				results[f.Code] = table
				mu.Unlock()
			}

			if n := progress.Increment(f.Name, err != nil); n%p.opts.ProgressEvery == 0 {
				current, total, pct, _ := progress.GetProgress()
				p.logger.InfoContext(gctx, "Parse progress",
					slog.Int("current", current),
					slog.Int("total", total),
					slog.Float64("percentage", pct),
					slog.String("file", f.Name),
					slog.String("eta", progress.GetETA()))
			}
			return nil
		})
	}

	// Workers only return an error on cancellation.
	if err := g.Wait(); err != nil || ctx.Err() != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		p.logger.WarnContext(ctx, "Directory parse cancelled",
			slog.String("directory", inputDir),
			slog.Int("parsed", len(results)))
		return results, err
	}

	var rows int
	for _, t := range results {
		rows += t.Len()
	}
	span.SetAttributes(attribute.Int("files", len(datFiles)), attribute.Int("parsed", len(results)))

	p.logger.InfoContext(ctx, "Directory parsed",
		slog.String("directory", inputDir),
		slog.Int("files", len(datFiles)),
		slog.Int("parsed", len(results)),
		slog.Int("failed", progress.Failed),
		slog.Bool("complete", progress.IsComplete()),
		slog.Int("records", rows),
		slog.String("elapsed", progress.GetElapsedTimeString()))

	p.exportCombined(ctx, results, layout, outDir)
	return results, nil
}

// exportCombined writes all_stocks_data.csv (and .xlsx when enabled). Write
// failures are logged; they do not fail the directory run.
func (p *Parser) exportCombined(ctx context.Context, results map[string]*domain.RecordTable, layout domain.BarLayout, outDir string) {
	if !p.opts.Combined || len(results) == 0 {
		return
	}
	if layout == "" {
		layout = results[exporter.SortedCodes(results)[0]].Layout
	}

	csvPath := filepath.Join(outDir, config.CombinedFileBase+config.CSVExtension)
	if _, _, err := p.exporter.ExportCombined(results, layout, csvPath); err != nil {
		infrastructure.WithError(p.logger, err).ErrorContext(ctx, "Failed to write combined CSV",
			slog.String("path", csvPath))
	}

	if p.opts.XLSX {
		xlsxPath := filepath.Join(outDir, config.CombinedFileBase+config.XLSXExtension)
		if _, err := p.exporter.ExportCombinedXLSX(results, layout, xlsxPath); err != nil {
			infrastructure.WithError(p.logger, err).ErrorContext(ctx, "Failed to write combined workbook",
				slog.String("path", xlsxPath))
		}
	}
}

// ParseAllStocks runs ParseDirectory over each market directory of rootDir
// that exists, writing into the matching subdirectory of outputDir. Results
// are keyed by the market's output directory name. Market failures are
// logged and joined into the returned error; the other markets still run.
func (p *Parser) ParseAllStocks(ctx context.Context, rootDir, outputDir string) (map[string]map[string]*domain.RecordTable, error) {
	ctx, span := p.tracer.Start(ctx, "parse_all_stocks")
	defer span.End()

	markets := &config.Paths{
		DataDir:   p.manager.ResolveInput(rootDir),
		OutputDir: outputDir,
	}
	all := make(map[string]map[string]*domain.RecordTable, len(config.MarketDirs))
	var errs []error

	for _, market := range config.MarketDirs {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		inputDir := markets.GetMarketInputDir(market)
		if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
			p.logger.InfoContext(ctx, "Market directory not found, skipping",
				slog.String("market", market.Name),
				slog.String("directory", inputDir))
			continue
		}

		p.logger.InfoContext(ctx, "Parsing market",
			slog.String("market", market.Name),
			slog.String("layout", string(market.Layout)))

		layout := market.Layout
		if p.opts.Layout != "" {
			layout = p.opts.Layout
		}

		tables, err := p.parseDirectory(ctx, inputDir, markets.GetMarketOutputDir(market), layout)
		if tables != nil {
			all[market.Output] = tables
		}
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			infrastructure.WithError(p.logger, err).ErrorContext(ctx, "Market failed",
				slog.String("market", market.Name))
			errs = append(errs, err)
		}
	}

	return all, errors.Join(errs...)
}
