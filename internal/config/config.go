package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vango-dev/vango-cn/pkg/cn"
	"github.com/vango-dev/vango-cn/pkg/cssprop"
)

// Config holds all configuration for the service and the CLI.
type Config struct {
	// Server
	Port            string
	Environment     string // development, staging, production
	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	// Tracing
	TracingEnabled bool

	// Merger
	CacheSize      int
	SortContexts   bool
	OrderSensitive []string // nil keeps the merger defaults
	Compound       []string // nil keeps the merger defaults
	ConflictsFile  string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Ignore errors if the file doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		OrderSensitive: getList("CN_ORDER_SENSITIVE"),
		Compound:       getList("CN_COMPOUND"),
		ConflictsFile:  os.Getenv("CN_CONFLICTS_FILE"),
	}

	var err error
	if cfg.LogLevel, err = ParseLogLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.TracingEnabled, err = strconv.ParseBool(getEnv("OTEL_ENABLED", "false")); err != nil {
		return nil, fmt.Errorf("invalid OTEL_ENABLED: %w", err)
	}
	if cfg.CacheSize, err = strconv.Atoi(getEnv("CN_CACHE_SIZE", strconv.Itoa(cn.DefaultCacheSize))); err != nil {
		return nil, fmt.Errorf("invalid CN_CACHE_SIZE: %w", err)
	}
	if cfg.SortContexts, err = strconv.ParseBool(getEnv("CN_SORT_CONTEXTS", "true")); err != nil {
		return nil, fmt.Errorf("invalid CN_SORT_CONTEXTS: %w", err)
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MergerOptions converts the merger settings to cn options. The conflicts
// file, when set, is read and layered over the default conflict map.
func (c *Config) MergerOptions(logger *slog.Logger) ([]cn.Option, error) {
	opts := []cn.Option{
		cn.WithCacheSize(c.CacheSize),
		cn.WithSortContexts(c.SortContexts),
		cn.WithLogger(logger),
	}
	if c.OrderSensitive != nil {
		opts = append(opts, cn.WithOrderSensitiveContexts(c.OrderSensitive...))
	}
	if c.Compound != nil {
		opts = append(opts, cn.WithCompoundContexts(c.Compound...))
	}
	if c.ConflictsFile != "" {
		conflicts, err := ReadConflicts(c.ConflictsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cn.WithConflicts(conflicts))
	}
	return opts, nil
}

// ReadConflicts loads a JSON shorthand to longhands map from path.
func ReadConflicts(path string) (cssprop.Conflicts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open conflicts file: %w", err)
	}
	defer f.Close()

	conflicts, err := cssprop.LoadConflicts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conflicts, nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

// getEnv returns the value of an environment variable or a fallback default.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getList splits a comma separated variable. Unset returns nil; set to
// "-" returns an empty, non-nil list.
func getList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" && item != "-" {
			out = append(out, item)
		}
	}
	return out
}
