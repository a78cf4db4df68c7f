package main

import (
	"testing"

	"stylus/internal/library"
	"stylus/internal/testsupport"
)

func TestStatusCommandShowsLibraryAndPaths(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.SeedTrack(t, env.store, library.Track{Title: "Alpha", BPM: 124})
	testsupport.SeedTrack(t, env.store, library.Track{Title: "Beta", CatalogID: 9001})

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Total tracks")
	requireContains(t, out, "Database: "+env.cfg.Paths.DatabasePath)
	requireContains(t, out, "Config: "+env.configPath)
	requireContains(t, out, "Notifications: disabled")
	requireContains(t, out, "readable: yes")
}
