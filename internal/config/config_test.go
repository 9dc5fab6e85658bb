package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-cn/internal/config"
	"github.com/vango-dev/vango-cn/pkg/cn"
	"github.com/vango-dev/vango-cn/pkg/cssprop"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "OTEL_ENABLED",
		"CN_CACHE_SIZE", "CN_SORT_CONTEXTS", "CN_ORDER_SENSITIVE", "CN_COMPOUND", "CN_CONFLICTS_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TracingEnabled)
	assert.Equal(t, cn.DefaultCacheSize, cfg.CacheSize)
	assert.True(t, cfg.SortContexts)
	assert.Nil(t, cfg.OrderSensitive)
	assert.Nil(t, cfg.Compound)
	assert.Empty(t, cfg.ConflictsFile)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CN_CACHE_SIZE", "0")
	t.Setenv("CN_SORT_CONTEXTS", "false")
	t.Setenv("CN_ORDER_SENSITIVE", "before, after ,marker")
	t.Setenv("CN_COMPOUND", "-")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.False(t, cfg.SortContexts)
	assert.Equal(t, []string{"before", "after", "marker"}, cfg.OrderSensitive)
	assert.NotNil(t, cfg.Compound)
	assert.Empty(t, cfg.Compound)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"log level", "LOG_LEVEL", "loud"},
		{"shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"tracing", "OTEL_ENABLED", "maybe"},
		{"cache size", "CN_CACHE_SIZE", "many"},
		{"sort contexts", "CN_SORT_CONTEXTS", "sometimes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := config.Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestMergerOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conflicts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"margin": ["margin-top"]}`), 0o644))

	cfg := &config.Config{
		CacheSize:     10,
		SortContexts:  false,
		Compound:      []string{},
		ConflictsFile: path,
	}
	opts, err := cfg.MergerOptions(nil)
	require.NoError(t, err)

	m := cn.New(opts...)
	assert.Equal(t, "margin:1px margin-left:2px", m.Merge("margin:1px margin-left:2px"))
	assert.Equal(t, "margin-top:2px", m.Merge("margin:1px margin-top:2px"))
	assert.Equal(t, "hover:sm:color:red sm:hover:color:blue", m.Merge("hover:sm:color:red sm:hover:color:blue"))
}

func TestMergerOptions_BadConflictsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conflicts.json")
	require.NoError(t, os.WriteFile(path, []byte(`["margin"]`), 0o644))

	_, err := (&config.Config{ConflictsFile: path}).MergerOptions(nil)
	assert.ErrorIs(t, err, cssprop.ErrInvalidConflicts)

	_, err = (&config.Config{ConflictsFile: filepath.Join(dir, "missing.json")}).MergerOptions(nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := config.ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
