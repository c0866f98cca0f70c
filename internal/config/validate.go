package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateQC(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	if c.Matching.DefaultFuzzyThreshold < 0 || c.Matching.DefaultFuzzyThreshold > 100 {
		return errors.New("matching.default_fuzzy_threshold must be between 0 and 100")
	}
	if c.Matching.Workers < 0 {
		return errors.New("matching.workers must not be negative")
	}
	return nil
}

func (c *Config) validateTiming() error {
	if c.Timing.MergeToleranceSeconds < 0 {
		return errors.New("timing.merge_tolerance_seconds must not be negative")
	}
	if c.Timing.GuardBandSeconds < 0 {
		return errors.New("timing.guard_band_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateQC() error {
	if c.QC.ThresholdDB > 0 {
		return errors.New("qc.threshold_db is measured in dBFS and must not be positive")
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
