package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stylus/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
[catalog]
base_url = "https://catalog.example.com/"

[matcher]
min_score = 0.4
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Catalog.BaseURL != "https://catalog.example.com" {
		t.Fatalf("base url not trimmed: %q", cfg.Catalog.BaseURL)
	}
	if cfg.Matcher.MinScore != 0.4 {
		t.Fatalf("min_score = %v, want 0.4", cfg.Matcher.MinScore)
	}
	if cfg.Matcher.MaxCandidates != 4 {
		t.Fatalf("max_candidates default = %v, want 4", cfg.Matcher.MaxCandidates)
	}
	if cfg.Catalog.RequestDelayMS != 400 {
		t.Fatalf("request_delay_ms default = %v, want 400", cfg.Catalog.RequestDelayMS)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadRequiresCatalogBaseURL(t *testing.T) {
	path := writeConfig(t, `
[matcher]
min_score = 0.3
`)
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "catalog.base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestLoadExpandsPaths(t *testing.T) {
	path := writeConfig(t, `
[paths]
database_path = "~/stylus-test/library.db"

[catalog]
base_url = "https://catalog.example.com"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	want := filepath.Join(home, "stylus-test", "library.db")
	if cfg.Paths.DatabasePath != want {
		t.Fatalf("database_path = %q, want %q", cfg.Paths.DatabasePath, want)
	}
}

func TestOverfetchClampedToMaxCandidates(t *testing.T) {
	path := writeConfig(t, `
[catalog]
base_url = "https://catalog.example.com"
overfetch = 2

[matcher]
max_candidates = 6
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.Overfetch != 6 {
		t.Fatalf("overfetch = %d, want clamp to 6", cfg.Catalog.Overfetch)
	}
}

func TestAPIKeyFallsBackToEnvironment(t *testing.T) {
	t.Setenv("STYLUS_CATALOG_API_KEY", "env-key")
	path := writeConfig(t, `
[catalog]
base_url = "https://catalog.example.com"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.APIKey != "env-key" {
		t.Fatalf("api_key = %q, want env-key", cfg.Catalog.APIKey)
	}
}

func TestValidateRejectsBadMatcherRanges(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "min score above one",
			body: "[catalog]\nbase_url = \"https://c.example.com\"\n[matcher]\nmin_score = 1.5\n",
			want: "matcher.min_score",
		},
		{
			name: "cutoff below tolerance",
			body: "[catalog]\nbase_url = \"https://c.example.com\"\n[matcher]\nduration_tolerance_seconds = 40.0\nduration_cutoff_seconds = 20.0\n",
			want: "duration_cutoff_seconds",
		},
		{
			name: "negative weight",
			body: "[catalog]\nbase_url = \"https://c.example.com\"\n[matcher]\ntext_weight = -0.5\n",
			want: "weights",
		},
		{
			name: "bad log format",
			body: "[catalog]\nbase_url = \"https://c.example.com\"\n[logging]\nformat = \"textual\"\n",
			want: "logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	// The sample ships without a catalog base URL, so loading it should fail
	// with the guidance message rather than a parse error.
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "catalog.base_url") {
		t.Fatalf("expected base_url guidance, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatabasePath = filepath.Join(dir, "data", "stylus.db")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{filepath.Join(dir, "data"), filepath.Join(dir, "logs")} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", p, err)
		}
	}
}
