package main

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"stylus/internal/catalog"
	"stylus/internal/library"
	"stylus/internal/testsupport"
)

func TestFixCommandRequiresSelection(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "fix")
	if err == nil || !strings.Contains(err.Error(), "specify track ids") {
		t.Fatalf("expected selection error, got %v", err)
	}
}

func TestFixCommandRejectsConflictingFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "fix", "--all", "--unlinked")
	if err == nil || !strings.Contains(err.Error(), "only one of") {
		t.Fatalf("expected conflicting-flags error, got %v", err)
	}

	_, _, err = runCLI(t, env.configPath, "fix", "7", "--all")
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("expected ids-with-flags error, got %v", err)
	}

	_, _, err = runCLI(t, env.configPath, "fix", "zero")
	if err == nil || !strings.Contains(err.Error(), "invalid track id") {
		t.Fatalf("expected invalid-id error, got %v", err)
	}
}

func TestFixCommandNoUnlinkedTracks(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.SeedTrack(t, env.store, library.Track{Title: "Linked", CatalogID: 9001})

	out, _, err := runCLI(t, env.configPath, "fix", "--unlinked")
	if err != nil {
		t.Fatalf("fix --unlinked: %v", err)
	}
	requireContains(t, out, "No tracks to reconcile")
}

func TestFixCommandRerunIsNoOp(t *testing.T) {
	env := setupCLITestEnv(t)

	details := catalog.Track{
		ID:              9001,
		Title:           "Strobe",
		Artists:         "deadmau5",
		Album:           "For Lack of a Better Name",
		Genre:           "Progressive House",
		Label:           "mau5trap",
		Year:            2009,
		BPM:             128,
		Key:             "B Major",
		ISRC:            "GBTDG0900123",
		CatalogNumber:   "MAU5CD03",
		ArtworkURL:      "https://img.example/9001.jpg",
		DurationSeconds: 635,
	}
	hit := catalog.Candidate{ID: 9001, Title: "Strobe", Artists: "deadmau5", DurationSeconds: 635}
	server := startCatalogServer(t, []catalog.Candidate{hit}, map[int64]catalog.Track{9001: details})
	env.pointAtCatalog(t, server.URL)

	// Every tag already matches the catalog entry and the link is in place,
	// so the batch must succeed without touching the file.
	track := testsupport.SeedTrack(t, env.store, library.Track{
		Title:           "Strobe",
		Artist:          "deadmau5",
		Album:           "For Lack of a Better Name",
		Genre:           "Progressive House",
		Label:           "mau5trap",
		Year:            2009,
		BPM:             128,
		Key:             "B Major",
		ISRC:            "GBTDG0900123",
		CatalogNumber:   "MAU5CD03",
		ArtworkURL:      "https://img.example/9001.jpg",
		DurationSeconds: 637,
		CatalogID:       9001,
	})

	out, _, err := runCLI(t, env.configPath, "fix", strconv.FormatInt(track.ID, 10))
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	requireContains(t, out, "up to date")
	requireContains(t, out, "Reconciled 1 tracks")
}

func TestFixCommandNoMatchFailsWithExitError(t *testing.T) {
	env := setupCLITestEnv(t)

	server := startCatalogServer(t, nil, nil)
	env.pointAtCatalog(t, server.URL)

	track := testsupport.SeedTrack(t, env.store, library.Track{
		Title:           "Ghost Signal",
		Artist:          "Nobody",
		DurationSeconds: 300,
	})

	out, _, err := runCLI(t, env.configPath, "fix", strconv.FormatInt(track.ID, 10))
	if err == nil || !strings.Contains(err.Error(), "1 of 1 tracks failed") {
		t.Fatalf("expected failure error, got %v", err)
	}
	requireContains(t, out, "no catalog match above score threshold")

	stored, getErr := env.store.GetTrack(context.Background(), track.ID)
	if getErr != nil {
		t.Fatalf("GetTrack: %v", getErr)
	}
	if stored.Linked() {
		t.Fatalf("expected track to stay unlinked, got catalog id %d", stored.CatalogID)
	}
}
