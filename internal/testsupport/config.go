// Package testsupport provides builders for configs, skeletons, and
// animations used across the test suites.
package testsupport

import (
	"path/filepath"
	"testing"

	"animopt/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTolerances overrides the optimization tolerances on the test config.
func WithTolerances(translation, rotationDegrees, scale float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tolerances.Translation = translation
		cfg.Tolerances.RotationDegrees = rotationDegrees
		cfg.Tolerances.Scale = scale
	}
}

// WithHistoryDisabled turns off run recording on the test config.
func WithHistoryDisabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = false
	}
}
