package testsupport

import (
	"context"
	"fmt"
	"testing"

	"stylus/internal/config"
	"stylus/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

var seedCounter int

// SeedTrack inserts a track for tests, filling a unique path and a default
// title when the caller leaves them empty.
func SeedTrack(t testing.TB, store *library.Store, track library.Track) *library.Track {
	t.Helper()

	seedCounter++
	if track.Path == "" {
		track.Path = fmt.Sprintf("/music/seed-%d.flac", seedCounter)
	}
	if track.Title == "" {
		track.Title = fmt.Sprintf("Seed Track %d", seedCounter)
	}

	stored, err := store.AddTrack(context.Background(), &track)
	if err != nil {
		t.Fatalf("store.AddTrack: %v", err)
	}
	return stored
}
