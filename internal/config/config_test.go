package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesCoreDefaults(t *testing.T) {
	cfg := DefaultConfig()
	rob, rs, lsb, fetch := cfg.CoreConfig()
	assert.Equal(t, 32, rob)
	assert.Equal(t, 16, rs)
	assert.Equal(t, 16, lsb)
	assert.Equal(t, 4, fetch)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Pipeline.ROBCapacity = 64
	cfg.Trace.Enabled = true

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 64, loaded.Pipeline.ROBCapacity)
	assert.True(t, loaded.Trace.Enabled)
}
