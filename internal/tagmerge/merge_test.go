package tagmerge_test

import (
	"reflect"
	"testing"

	"stylus/internal/catalog"
	"stylus/internal/library"
	"stylus/internal/tagmerge"
)

func TestMergeOverwritesTextualFields(t *testing.T) {
	current := library.Track{
		Title:  "strobe",
		Artist: "Deadmau5",
		Genre:  "House",
		Album:  "Unknown Album",
		Year:   2008,
	}
	incoming := catalog.Track{
		ID:            4521,
		Title:         "Strobe",
		Artists:       "deadmau5",
		Album:         "For Lack of a Better Name",
		Genre:         "Progressive House",
		Label:         "mau5trap",
		Key:           "B Maj",
		ISRC:          "CA6D80900132",
		CatalogNumber: "MAU5059",
		ReleaseDate:   "2009-09-22",
	}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)

	if patch.Title == nil || *patch.Title != "Strobe" {
		t.Fatalf("Title = %v, want Strobe", patch.Title)
	}
	if patch.Artist == nil || *patch.Artist != "deadmau5" {
		t.Fatalf("Artist = %v, want deadmau5", patch.Artist)
	}
	if patch.Album == nil || *patch.Album != "For Lack of a Better Name" {
		t.Fatalf("Album = %v, want For Lack of a Better Name", patch.Album)
	}
	if patch.Genre == nil || *patch.Genre != "Progressive House" {
		t.Fatalf("Genre = %v, want Progressive House", patch.Genre)
	}
	if patch.Label == nil || *patch.Label != "mau5trap" {
		t.Fatalf("Label = %v, want mau5trap", patch.Label)
	}
	if patch.Key == nil || *patch.Key != "B Maj" {
		t.Fatalf("Key = %v, want B Maj", patch.Key)
	}
	if patch.ISRC == nil || *patch.ISRC != "CA6D80900132" {
		t.Fatalf("ISRC = %v, want CA6D80900132", patch.ISRC)
	}
	if patch.CatalogNumber == nil || *patch.CatalogNumber != "MAU5059" {
		t.Fatalf("CatalogNumber = %v, want MAU5059", patch.CatalogNumber)
	}
	if patch.Year == nil || *patch.Year != 2009 {
		t.Fatalf("Year = %v, want 2009", patch.Year)
	}
}

func TestMergeNeverOverwritesExistingBPM(t *testing.T) {
	current := library.Track{Title: "Strobe", BPM: 128}
	incoming := catalog.Track{Title: "Strobe", BPM: 126}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	if patch.BPM != nil {
		t.Fatalf("BPM = %v, want nil when local BPM present", *patch.BPM)
	}
}

func TestMergeFillsAbsentBPM(t *testing.T) {
	current := library.Track{Title: "Strobe"}
	incoming := catalog.Track{Title: "Strobe", BPM: 126}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	if patch.BPM == nil || *patch.BPM != 126 {
		t.Fatalf("BPM = %v, want 126", patch.BPM)
	}
}

func TestMergeDropsEqualFields(t *testing.T) {
	current := library.Track{
		Title:      "Strobe (Club Edit)",
		Artist:     "deadmau5",
		Album:      "For Lack of a Better Name",
		Genre:      "Progressive House",
		Label:      "mau5trap",
		Year:       2009,
		BPM:        128,
		Key:        "B Maj",
		ArtworkURL: "https://img.example/4521.jpg",
	}
	incoming := catalog.Track{
		Title:       "Strobe",
		MixName:     "Club Edit",
		Artists:     "deadmau5",
		Album:       "For Lack of a Better Name",
		Genre:       "Progressive House",
		Label:       "mau5trap",
		ReleaseDate: "2009-09-22",
		BPM:         128,
		Key:         "B Maj",
		ArtworkURL:  "https://img.example/4521.jpg",
	}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	if !patch.IsEmpty() {
		t.Fatalf("expected empty patch, got fields %v", patch.Fields())
	}
}

func TestMergeLeavesAbsentIncomingFieldsAlone(t *testing.T) {
	current := library.Track{
		Title:  "Carefully Curated Title",
		Artist: "Careful Artist",
		Genre:  "IDM",
	}
	incoming := catalog.Track{Title: "Carefully Curated Title"}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	if !patch.IsEmpty() {
		t.Fatalf("expected empty patch when incoming fields absent, got %v", patch.Fields())
	}
}

func TestMergeAppendsMixNameToTitle(t *testing.T) {
	current := library.Track{Title: "Strobe"}
	incoming := catalog.Track{Title: "Strobe", MixName: "Club Edit"}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	if patch.Title == nil || *patch.Title != "Strobe (Club Edit)" {
		t.Fatalf("Title = %v, want Strobe (Club Edit)", patch.Title)
	}
}

func TestMergeArtworkOnlyScope(t *testing.T) {
	current := library.Track{
		Title:      "Strobe",
		Artist:     "deadmau5",
		ArtworkURL: "https://img.example/old.jpg",
	}
	incoming := catalog.Track{
		Title:      "Completely Different",
		Artists:    "Someone Else",
		BPM:        140,
		ArtworkURL: "https://img.example/new.jpg",
	}

	patch := tagmerge.Merge(current, incoming, tagmerge.ScopeArtworkOnly)
	if patch.ArtworkURL == nil || *patch.ArtworkURL != "https://img.example/new.jpg" {
		t.Fatalf("ArtworkURL = %v, want new artwork", patch.ArtworkURL)
	}
	if got := patch.Fields(); len(got) != 1 {
		t.Fatalf("expected artwork-only patch, got fields %v", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	current := library.Track{
		Title:  "strobe",
		Artist: "DEADMAU5",
		Year:   2008,
	}
	incoming := catalog.Track{
		ID:          4521,
		Title:       "Strobe",
		Artists:     "deadmau5",
		Genre:       "Progressive House",
		ReleaseDate: "2009-09-22",
		BPM:         128,
	}

	first := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	again := tagmerge.Merge(current, incoming, tagmerge.ScopeFull)
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("merge not deterministic: %#v vs %#v", first, again)
	}

	applied := current
	first.Apply(&applied)
	second := tagmerge.Merge(applied, incoming, tagmerge.ScopeFull)
	if !second.IsEmpty() {
		t.Fatalf("expected no-op on second application, got fields %v", second.Fields())
	}
}
