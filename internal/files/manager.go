package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"qmtcli/internal/config"
)

// Manager provides file management operations. Relative input paths resolve
// against the data directory and relative output paths against the output
// directory.
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance; paths may be nil
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{paths: paths, logger: logger}
}

// ReadFile reads the entire content of an input file. The handle is closed
// before returning on every path.
func (m *Manager) ReadFile(path string) ([]byte, error) {
	fullPath := m.ResolveInput(path)

	m.logger.Debug("Reading file",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fullPath, err)
	}
	return data, nil
}

// EnsureDirectory creates an output directory if it doesn't exist and returns
// its resolved path
func (m *Manager) EnsureDirectory(path string) (string, error) {
	fullPath := m.ResolveOutput(path)

	m.logger.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return fullPath, err
	}
	return fullPath, nil
}

// ResolveInput resolves a path relative to the data directory
func (m *Manager) ResolveInput(path string) string {
	if filepath.IsAbs(path) || m.paths == nil || m.paths.DataDir == "" {
		return path
	}
	return filepath.Join(m.paths.DataDir, path)
}

// ResolveOutput resolves a path relative to the output directory
func (m *Manager) ResolveOutput(path string) string {
	if filepath.IsAbs(path) || m.paths == nil || m.paths.OutputDir == "" {
		return path
	}
	return m.paths.GetOutputPath(path)
}
