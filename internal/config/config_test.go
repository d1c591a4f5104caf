package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, "fake_vigo", cfg.Backend)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, 0.0, cfg.DefaultPrecision)
	assert.Equal(t, "terminal", cfg.Renderer)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QDEBUG_LOG_LEVEL", "debug")
	t.Setenv("QDEBUG_LOG_PRETTY", "true")
	t.Setenv("QDEBUG_BACKEND", "fake_line5")
	t.Setenv("QDEBUG_SEED", "42")
	t.Setenv("QDEBUG_DEFAULT_PRECISION", "0.01")
	t.Setenv("QDEBUG_RENDERER", "yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "fake_line5", cfg.Backend)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, 0.01, cfg.DefaultPrecision)
	assert.Equal(t, "yaml", cfg.Renderer)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qdebug.env")
	require.NoError(t, os.WriteFile(path, []byte("QDEBUG_BACKEND=devices/line.yaml\nQDEBUG_RENDERER=yaml\n"), 0o600))
	t.Setenv("QDEBUG_RENDERER", "terminal")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "devices/line.yaml", cfg.Backend)
	assert.Equal(t, "terminal", cfg.Renderer, "the environment wins over the file")
	_, set := os.LookupEnv("QDEBUG_BACKEND")
	assert.False(t, set, "files do not leak into the process environment")

	_, err = Load(filepath.Join(dir, "missing.env"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		key, value string
	}{
		{"QDEBUG_LOG_LEVEL", "verbose"},
		{"QDEBUG_LOG_PRETTY", "sometimes"},
		{"QDEBUG_SEED", "-1"},
		{"QDEBUG_DEFAULT_PRECISION", "high"},
		{"QDEBUG_DEFAULT_PRECISION", "-0.1"},
	}
	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}
