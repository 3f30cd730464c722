package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.False(t, cfg.Trace.IncludeDNS)
	assert.Equal(t, 8, cfg.Server.CacheCapacity)
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Server.CacheCapacity = 0
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Server.MetricsPort = 99999
	assert.Error(t, Validate(cfg))
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Server.CacheCapacity, cfg.Server.CacheCapacity)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".netlens"), 0755))
	content := []byte("trace:\n  skip_types: [\"TP\", \"MH\"]\n  include_dns: true\nserver:\n  cache_capacity: 3\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".netlens", "config.yaml"), content, 0644))

	cfg, err := NewLoader(root).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"TP", "MH"}, cfg.Trace.SkipTypes)
	assert.True(t, cfg.Trace.IncludeDNS)
	assert.Equal(t, 3, cfg.Server.CacheCapacity)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NETLENS_SERVER_CACHE_CAPACITY", "5")
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Server.CacheCapacity)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".netlens"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".netlens", "config.yaml"), []byte("server:\n  cache_capacity: 0\n"), 0644))

	_, err := NewLoader(root).Load()
	assert.Error(t, err)
}
