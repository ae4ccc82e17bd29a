// Package logging assembles structured slog loggers and formatting helpers
// used across animopt commands and libraries.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and defines the standardized attribute keys so optimizer, archive,
// and history code tag log lines consistently. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
