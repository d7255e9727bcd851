package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/zbewalgo/engine"
	"github.com/arloliu/zbewalgo/errs"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, engine.DefaultMaxOutputSize, cfg.MaxOutputSize)
	assert.Equal(t, engine.DefaultEarlyAbortSize, cfg.EarlyAbortSize)
	assert.Equal(t, 4096, cfg.PageSize)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Empty(t, cfg.Combinations)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
max_output_size: 2000
early_abort_size: 0
log_level: DEBUG
combinations:
  - rle
  - bitshuffle-rle
`))
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.MaxOutputSize)
	assert.Equal(t, 0, cfg.EarlyAbortSize)
	assert.Equal(t, engine.DefaultRetryInterval, cfg.SearchRetryInterval, "untouched keys keep defaults")
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []string{"rle", "bitshuffle-rle"}, cfg.Combinations)

	e, err := engine.New(cfg.EngineOptions()...)
	require.NoError(t, err)
	assert.Equal(t, 2000, e.MaxOutputSize())
	assert.Equal(t, 0, e.EarlyAbortSize())
	assert.Equal(t, 2, e.Table().Count())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_LoweredMaxOutput(t *testing.T) {
	cfg, err := Parse([]byte("max_output_size: 300\n"))
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.EarlyAbortSize)

	cfg, err = Parse([]byte("max_output_size: 300\nearly_abort_size: 280\n"))
	require.NoError(t, err)
	assert.Equal(t, 280, cfg.EarlyAbortSize)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown_key", "max_output: 100\n"},
		{"wrong_type", "page_size: large\n"},
		{"max_output_too_large", "max_output_size: 5000\n"},
		{"early_abort_above_max", "max_output_size: 100\nearly_abort_size: 200\n"},
		{"bwt_alphabet", "bwt_max_alphabet: 0\n"},
		{"retry_interval", "search_retry_interval: 1000\n"},
		{"page_size", "page_size: 0\n"},
		{"log_level", "log_level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zbewalgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 1024\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.PageSize)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "zbewalgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))
	t.Setenv(EnvConfig, path)

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "": slog.LevelInfo, "Info": slog.LevelInfo,
		"warn": slog.LevelWarn, "warning": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}
