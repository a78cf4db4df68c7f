package main

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Notifications are disabled")
}

func TestTestNotifySendsToTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	var mu sync.Mutex
	var gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotTitle = r.Header.Get("Title")
		mu.Unlock()
	}))
	t.Cleanup(server.Close)

	env.cfg.Notifications.NtfyTopic = server.URL
	env.writeConfig(t)

	out, _, err := runCLI(t, env.configPath, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")

	mu.Lock()
	defer mu.Unlock()
	if gotTitle != "Stylus - Test" {
		t.Fatalf("expected test notification title, got %q", gotTitle)
	}
}
