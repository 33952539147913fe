package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"qmtcli/pkg/contracts/domain"
)

// Paths contains the resolved application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	DataDir   string
	OutputDir string
	LogsDir   string
}

// MarketDir maps one input subdirectory of the QMT data root to its output subdirectory
type MarketDir struct {
	Name   string
	Input  string
	Output string
	Layout domain.BarLayout
}

// MarketDirs is the canonical data layout, in processing order
var MarketDirs = []MarketDir{
	{Name: "shenzhen daily", Input: "szdayK", Output: "shenzhen_daily", Layout: domain.BarLayoutDaily},
	{Name: "shanghai daily", Input: "shdayK", Output: "shanghai_daily", Layout: domain.BarLayoutDaily},
	{Name: "shanghai 5min", Input: "sh5mK", Output: "shanghai_5min", Layout: domain.BarLayoutIntraday},
}

// NewPaths resolves the configured directories to absolute paths
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir %s: %w", cfg.DataDir, err)
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir %s: %w", cfg.OutputDir, err)
	}
	logsDir, err := filepath.Abs(cfg.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir %s: %w", cfg.LogsDir, err)
	}

	return &Paths{
		DataDir:   dataDir,
		OutputDir: outputDir,
		LogsDir:   logsDir,
	}, nil
}

// EnsureDirectories creates the output and logs directories if they don't exist.
// The data directory is input only and is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetOutputPath returns the path for an output file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetMarketInputDir returns the input directory of a market under the data root
func (p *Paths) GetMarketInputDir(m MarketDir) string {
	return filepath.Join(p.DataDir, m.Input)
}

// GetMarketOutputDir returns the output directory of a market
func (p *Paths) GetMarketOutputDir(m MarketDir) string {
	return filepath.Join(p.OutputDir, m.Output)
}

// CSVFileName returns the per-security CSV file name for a code
func CSVFileName(code string) string {
	return code + CSVExtension
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		))
}
