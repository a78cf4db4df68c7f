package reconcile_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stylus/internal/catalog"
	"stylus/internal/library"
	"stylus/internal/reconcile"
	"stylus/internal/services"
)

func TestSearchBatchProducesCandidateSets(t *testing.T) {
	store := newFakeStore(
		library.Track{ID: 1, Path: "/music/alpha.flac", Title: "Alpha", Artist: "Artist A", DurationSeconds: 300},
		library.Track{ID: 2, Path: "/music/beta.flac", Title: "Beta", Artist: "Artist B"},
	)
	searcher := newFakeSearcher()
	searcher.searchResults["Alpha"] = []catalog.Candidate{
		{ID: 11, Title: "Alpha", Artists: "Artist A", Score: 0.95},
		{ID: 12, Title: "Alpha", MixName: "Extended Mix", Artists: "Artist A", Score: 0.81},
	}
	searcher.searchErr["Beta"] = services.Wrap(services.ErrCatalogUnavailable, "catalog", "search", "request failed", errors.New("connection reset"))
	writer := newFakeWriter()
	rec := newTestReconciler(t, store, searcher, writer, nil)

	summary, err := rec.SearchBatch(context.Background(), []int64{1, 2, 7})
	if err != nil {
		t.Fatalf("SearchBatch failed: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("Total = %d, want 3", summary.Total)
	}
	if summary.WithCandidates != 1 || summary.WithoutCandidates != 2 {
		t.Fatalf("candidate counts = %d/%d, want 1/2", summary.WithCandidates, summary.WithoutCandidates)
	}
	if len(summary.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want 3", len(summary.Tracks))
	}

	alpha := summary.Tracks[0]
	if alpha.TrackID != 1 || alpha.Title != "Alpha" || alpha.Artist != "Artist A" {
		t.Errorf("alpha set = %+v", alpha)
	}
	if alpha.Filename != "alpha.flac" {
		t.Errorf("alpha filename = %q, want alpha.flac", alpha.Filename)
	}
	if alpha.DurationSeconds != 300 {
		t.Errorf("alpha duration = %v, want 300", alpha.DurationSeconds)
	}
	if len(alpha.Candidates) != 2 {
		t.Errorf("alpha candidates = %d, want 2", len(alpha.Candidates))
	}
	if alpha.SearchError != "" {
		t.Errorf("alpha search error = %q, want empty", alpha.SearchError)
	}

	beta := summary.Tracks[1]
	if len(beta.Candidates) != 0 {
		t.Errorf("beta candidates = %d, want 0", len(beta.Candidates))
	}
	if !strings.Contains(beta.SearchError, "catalog unavailable") {
		t.Errorf("beta search error = %q, want catalog unavailable", beta.SearchError)
	}

	unknown := summary.Tracks[2]
	if unknown.TrackID != 7 {
		t.Errorf("unknown TrackID = %d, want 7", unknown.TrackID)
	}
	if !strings.Contains(unknown.SearchError, "not in the library") {
		t.Errorf("unknown search error = %q, want library miss", unknown.SearchError)
	}

	if len(searcher.detailCalls) != 0 {
		t.Errorf("detail calls = %d, want 0 during search phase", len(searcher.detailCalls))
	}
	if len(writer.writes) != 0 || len(store.updateCalls) != 0 {
		t.Error("search phase must not write anything")
	}
}

func TestSearchBatchEmptyInputRejected(t *testing.T) {
	rec := newTestReconciler(t, newFakeStore(), newFakeSearcher(), newFakeWriter(), nil)

	_, err := rec.SearchBatch(context.Background(), nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("SearchBatch error = %v, want ErrValidation", err)
	}
}

func TestSearchBatchNoMatchIsNotAnError(t *testing.T) {
	store := newFakeStore(library.Track{ID: 1, Path: "/music/rare.flac", Title: "Rare Cut", Artist: "Unknown"})
	searcher := newFakeSearcher()
	rec := newTestReconciler(t, store, searcher, newFakeWriter(), nil)

	summary, err := rec.SearchBatch(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("SearchBatch failed: %v", err)
	}
	if summary.WithoutCandidates != 1 {
		t.Fatalf("WithoutCandidates = %d, want 1", summary.WithoutCandidates)
	}
	set := summary.Tracks[0]
	if set.SearchError != "" {
		t.Errorf("search error = %q, want empty for a clean no-match", set.SearchError)
	}
	if len(set.Candidates) != 0 {
		t.Errorf("candidates = %d, want 0", len(set.Candidates))
	}
}

func TestSearchBatchEmitsProgress(t *testing.T) {
	store := newFakeStore(library.Track{ID: 1, Path: "/music/alpha.flac", Title: "Alpha", Artist: "Artist A"})
	searcher := newFakeSearcher()
	searcher.searchResults["Alpha"] = []catalog.Candidate{{ID: 11, Title: "Alpha", Artists: "Artist A", Score: 0.9}}
	sink := &recordingSink{}
	rec := newTestReconciler(t, store, searcher, newFakeWriter(), sink)

	if _, err := rec.SearchBatch(context.Background(), []int64{1}); err != nil {
		t.Fatalf("SearchBatch failed: %v", err)
	}
	phases := sink.phases()
	if len(phases) != 2 || phases[0] != reconcile.PhaseSearching || phases[1] != reconcile.PhaseComplete {
		t.Errorf("phases = %v, want [searching complete]", phases)
	}
}
