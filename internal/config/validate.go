package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTolerances(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTolerances() error {
	if c.Tolerances.Translation < 0 {
		return errors.New("tolerances.translation must not be negative")
	}
	if c.Tolerances.RotationDegrees < 0 {
		return errors.New("tolerances.rotation_degrees must not be negative")
	}
	if c.Tolerances.RotationDegrees > 180 {
		return errors.New("tolerances.rotation_degrees must not exceed 180")
	}
	if c.Tolerances.Scale < 0 {
		return errors.New("tolerances.scale must not be negative")
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.SampleCount < 2 {
		return errors.New("report.sample_count must be at least 2")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.MaxRuns < 1 {
		return errors.New("history.max_runs must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
