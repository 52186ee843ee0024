package testsupport

import (
	"path/filepath"
	"testing"

	"screener/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test-tmdb"
	cfg.Gemini.APIKey = "test-gemini"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTheme overrides the analysis theme wording on the test config.
func WithTheme(theme string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Theme = theme
	}
}

// WithMaxOptions overrides the disambiguation option cap on the test config.
func WithMaxOptions(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.MaxOptions = limit
	}
}
