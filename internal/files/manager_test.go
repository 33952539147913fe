package files

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmtcli/internal/config"
	"qmtcli/internal/infrastructure"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	base := t.TempDir()
	paths := &config.Paths{
		DataDir:   filepath.Join(base, "data"),
		OutputDir: filepath.Join(base, "output"),
	}
	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))
	return NewManager(paths, infrastructure.NewLogger("error", &bytes.Buffer{})), paths
}

func TestNewManager(t *testing.T) {
	paths := &config.Paths{DataDir: "/test/data"}

	manager := NewManager(paths, nil)
	assert.NotNil(t, manager)
	assert.Equal(t, paths, manager.paths)
	assert.NotNil(t, manager.logger)
}

func TestManager_ReadFile(t *testing.T) {
	manager, paths := newTestManager(t)
	content := []byte{0x01, 0x02, 0x03}
	require.NoError(t, os.WriteFile(filepath.Join(paths.DataDir, "000001.DAT"), content, 0644))

	t.Run("relative to data dir", func(t *testing.T) {
		data, err := manager.ReadFile("000001.DAT")
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("absolute path", func(t *testing.T) {
		data, err := manager.ReadFile(filepath.Join(paths.DataDir, "000001.DAT"))
		require.NoError(t, err)
		assert.Equal(t, content, data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := manager.ReadFile("missing.DAT")
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("directory", func(t *testing.T) {
		_, err := manager.ReadFile(paths.DataDir)
		assert.Error(t, err)
	})
}

func TestManager_EnsureDirectory(t *testing.T) {
	manager, paths := newTestManager(t)

	full, err := manager.EnsureDirectory("shenzhen_daily")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.OutputDir, "shenzhen_daily"), full)
	assert.DirExists(t, full)

	// idempotent
	_, err = manager.EnsureDirectory("shenzhen_daily")
	assert.NoError(t, err)
}

func TestManager_NilPaths(t *testing.T) {
	manager := NewManager(nil, nil)
	assert.Equal(t, "a/b.DAT", manager.ResolveInput("a/b.DAT"))
	assert.Equal(t, "out", manager.ResolveOutput("out"))
}
