package tagmerge

import (
	"stylus/internal/catalog"
	"stylus/internal/library"
)

// Scope selects which fields a merge may touch.
type Scope string

const (
	// ScopeFull applies the complete field policy.
	ScopeFull Scope = "full"
	// ScopeArtworkOnly restricts the merge to the artwork URL; every other
	// field passes through unchanged.
	ScopeArtworkOnly Scope = "artwork-only"
)

// Merge computes the patch that reconciles local tags with catalog tags.
//
// Textual fields (title, artist, genre, album, year, label, isrc, key,
// catalog number, artwork URL) are overwritten whenever the catalog supplies
// a value: the catalog is authoritative for them once a match is confirmed.
// BPM is filled only when the local value is absent; a locally measured BPM
// always wins over the catalog's. Values equal to the current ones are
// dropped from the patch, so an unchanged track produces an empty patch.
//
// Merge is pure: same inputs, same patch, no side effects.
func Merge(current library.Track, incoming catalog.Track, scope Scope) library.TagPatch {
	var patch library.TagPatch

	patch.ArtworkURL = stringChange(current.ArtworkURL, incoming.ArtworkURL)
	if scope == ScopeArtworkOnly {
		return patch
	}

	patch.Title = stringChange(current.Title, incoming.FullTitle())
	patch.Artist = stringChange(current.Artist, incoming.Artists)
	patch.Album = stringChange(current.Album, incoming.Album)
	patch.Genre = stringChange(current.Genre, incoming.Genre)
	patch.Label = stringChange(current.Label, incoming.Label)
	patch.Key = stringChange(current.Key, incoming.Key)
	patch.ISRC = stringChange(current.ISRC, incoming.ISRC)
	patch.CatalogNumber = stringChange(current.CatalogNumber, incoming.CatalogNumber)
	patch.Year = intChange(current.Year, incoming.ReleaseYear())

	if current.BPM == 0 && incoming.BPM > 0 {
		bpm := incoming.BPM
		patch.BPM = &bpm
	}

	return patch
}

// stringChange returns a pointer to next when the catalog supplies a value
// that differs from the current one.
func stringChange(current, next string) *string {
	if next == "" || next == current {
		return nil
	}
	return &next
}

func intChange(current, next int) *int {
	if next == 0 || next == current {
		return nil
	}
	return &next
}
