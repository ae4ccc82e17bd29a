// Package config loads, normalizes, and validates animopt configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ANIMOPT_DATA_DIR. The Config type centralizes every knob the CLI needs:
// optimization tolerances, report sampling density, history retention, and
// log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
