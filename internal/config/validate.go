package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/stylus/config.toml"
		}
		return fmt.Errorf("catalog.base_url is required. Edit %s (create with 'stylus config init')", defaultPath)
	}
	if c.Catalog.RequestDelayMS < 0 {
		return errors.New("catalog.request_delay_ms must be >= 0")
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return errors.New("catalog.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMatcher() error {
	m := c.Matcher
	if m.MaxCandidates < 1 {
		return errors.New("matcher.max_candidates must be >= 1")
	}
	if m.MinScore < 0 || m.MinScore > 1 {
		return errors.New("matcher.min_score must be between 0 and 1")
	}
	if m.TextWeight < 0 || m.DurationWeight < 0 {
		return errors.New("matcher weights must be >= 0")
	}
	if m.TextWeight+m.DurationWeight <= 0 {
		return errors.New("matcher weights must not both be zero")
	}
	if m.DurationToleranceSeconds < 0 {
		return errors.New("matcher.duration_tolerance_seconds must be >= 0")
	}
	if m.DurationCutoffSeconds <= m.DurationToleranceSeconds {
		return errors.New("matcher.duration_cutoff_seconds must be greater than matcher.duration_tolerance_seconds")
	}
	if m.ScoreEpsilon < 0 {
		return errors.New("matcher.score_epsilon must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
