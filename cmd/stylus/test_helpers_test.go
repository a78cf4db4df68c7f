package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"stylus/internal/catalog"
	"stylus/internal/config"
	"stylus/internal/library"
	"stylus/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *library.Store
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.MusicDir, 0o755); err != nil {
		t.Fatalf("mkdir music dir: %v", err)
	}

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	env := &cliTestEnv{
		cfg:        cfg,
		store:      testsupport.MustOpenStore(t, cfg),
		configPath: configPath,
	}
	env.writeConfig(t)
	return env
}

// writeConfig serializes the in-memory test config so CLI invocations load
// the same paths and endpoints the test is using.
func (e *cliTestEnv) writeConfig(t *testing.T) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
database_path = %q
log_dir = %q
music_dir = %q

[catalog]
base_url = %q
api_key = %q
request_delay_ms = 1

[notifications]
ntfy_topic = %q
`,
		e.cfg.Paths.DatabasePath,
		e.cfg.Paths.LogDir,
		e.cfg.Paths.MusicDir,
		e.cfg.Catalog.BaseURL,
		e.cfg.Catalog.APIKey,
		e.cfg.Notifications.NtfyTopic,
	)
	if err := os.WriteFile(e.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) pointAtCatalog(t *testing.T, baseURL string) {
	t.Helper()
	e.cfg.Catalog.BaseURL = baseURL
	e.writeConfig(t)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// startCatalogServer serves the search and detail endpoints the catalog
// client talks to. Every search returns the same hits; details resolve by id.
func startCatalogServer(t *testing.T, hits []catalog.Candidate, details map[int64]catalog.Track) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search/tracks", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]any{"results": hits}); err != nil {
			t.Errorf("encode search response: %v", err)
		}
	})
	mux.HandleFunc("/tracks/", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/tracks/"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		track, ok := details[id]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := json.NewEncoder(w).Encode(track); err != nil {
			t.Errorf("encode track response: %v", err)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
