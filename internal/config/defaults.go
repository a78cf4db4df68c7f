package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "console"

	defaultRequestDelayMS = 400
	defaultTimeoutSeconds = 15
	defaultOverfetch      = 12

	defaultMaxCandidates     = 4
	defaultMinScore          = 0.25
	defaultTextWeight        = 0.8
	defaultDurationWeight    = 0.2
	defaultDurationTolerance = 3
	defaultDurationCutoff    = 30
	defaultScoreEpsilon      = 0.01

	defaultNotifyTimeout = 30
)

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			DatabasePath: filepath.Join(defaultDataDir(), "stylus.db"),
			LogDir:       filepath.Join(defaultDataDir(), "logs"),
			MusicDir:     "~/Music",
		},
		Catalog: Catalog{
			RequestDelayMS: defaultRequestDelayMS,
			TimeoutSeconds: defaultTimeoutSeconds,
			Overfetch:      defaultOverfetch,
		},
		Matcher: Matcher{
			MaxCandidates:            defaultMaxCandidates,
			MinScore:                 defaultMinScore,
			TextWeight:               defaultTextWeight,
			DurationWeight:           defaultDurationWeight,
			DurationToleranceSeconds: defaultDurationTolerance,
			DurationCutoffSeconds:    defaultDurationCutoff,
			ScoreEpsilon:             defaultScoreEpsilon,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultDataDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "stylus")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/stylus"
	}
	return filepath.Join(home, ".local", "share", "stylus")
}
