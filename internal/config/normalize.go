package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeMatcher()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.MusicDir, err = expandPath(c.Paths.MusicDir); err != nil {
		return fmt.Errorf("paths.music_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Catalog.APIKey = strings.TrimSpace(c.Catalog.APIKey)
	if c.Catalog.APIKey == "" {
		if value, ok := os.LookupEnv("STYLUS_CATALOG_API_KEY"); ok {
			c.Catalog.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Catalog.RequestDelayMS <= 0 {
		c.Catalog.RequestDelayMS = defaultRequestDelayMS
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		c.Catalog.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Catalog.Overfetch <= 0 {
		c.Catalog.Overfetch = defaultOverfetch
	}
}

func (c *Config) normalizeMatcher() {
	if c.Matcher.MaxCandidates <= 0 {
		c.Matcher.MaxCandidates = defaultMaxCandidates
	}
	// Overfetching fewer results than the caller may keep makes no sense.
	if c.Catalog.Overfetch < c.Matcher.MaxCandidates {
		c.Catalog.Overfetch = c.Matcher.MaxCandidates
	}
	if c.Matcher.TextWeight <= 0 && c.Matcher.DurationWeight <= 0 {
		c.Matcher.TextWeight = defaultTextWeight
		c.Matcher.DurationWeight = defaultDurationWeight
	}
	if c.Matcher.DurationCutoffSeconds <= 0 {
		c.Matcher.DurationCutoffSeconds = defaultDurationCutoff
	}
	if c.Matcher.ScoreEpsilon <= 0 {
		c.Matcher.ScoreEpsilon = defaultScoreEpsilon
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
