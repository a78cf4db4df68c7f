package library

import (
	"sort"
	"strings"
	"time"
)

// Track represents a local audio file persisted in SQLite. A zero value in
// any metadata field means the tag is absent from the file.
type Track struct {
	ID              int64
	Path            string
	Title           string
	Artist          string
	Album           string
	Genre           string
	Label           string
	Year            int
	BPM             float64
	Key             string
	ISRC            string
	CatalogNumber   string
	ArtworkURL      string
	CatalogID       int64
	DurationSeconds float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Linked reports whether the track has been matched to a catalog entry.
func (t Track) Linked() bool {
	return t.CatalogID != 0
}

// DisplayTitle returns a human-readable label for progress and log output,
// falling back to the file name when the title tag is absent.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if idx := strings.LastIndexByte(t.Path, '/'); idx >= 0 {
		return t.Path[idx+1:]
	}
	return t.Path
}

// TagPatch carries the fields a merge decided to write. Nil means the field
// is untouched; a non-nil pointer overwrites, even with an empty value.
type TagPatch struct {
	Title         *string
	Artist        *string
	Album         *string
	Genre         *string
	Label         *string
	Year          *int
	BPM           *float64
	Key           *string
	ISRC          *string
	CatalogNumber *string
	ArtworkURL    *string
}

// IsEmpty reports whether the patch would change nothing.
func (p TagPatch) IsEmpty() bool {
	return p.Title == nil &&
		p.Artist == nil &&
		p.Album == nil &&
		p.Genre == nil &&
		p.Label == nil &&
		p.Year == nil &&
		p.BPM == nil &&
		p.Key == nil &&
		p.ISRC == nil &&
		p.CatalogNumber == nil &&
		p.ArtworkURL == nil
}

// Fields returns the sorted names of the fields the patch sets.
func (p TagPatch) Fields() []string {
	fields := make([]string, 0, 11)
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Artist != nil {
		fields = append(fields, "artist")
	}
	if p.Album != nil {
		fields = append(fields, "album")
	}
	if p.Genre != nil {
		fields = append(fields, "genre")
	}
	if p.Label != nil {
		fields = append(fields, "label")
	}
	if p.Year != nil {
		fields = append(fields, "year")
	}
	if p.BPM != nil {
		fields = append(fields, "bpm")
	}
	if p.Key != nil {
		fields = append(fields, "key")
	}
	if p.ISRC != nil {
		fields = append(fields, "isrc")
	}
	if p.CatalogNumber != nil {
		fields = append(fields, "catalog_number")
	}
	if p.ArtworkURL != nil {
		fields = append(fields, "artwork_url")
	}
	sort.Strings(fields)
	return fields
}

// Apply copies the patch onto a track in place. Used to keep in-memory state
// consistent with what was just written to disk and to the store.
func (p TagPatch) Apply(t *Track) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Artist != nil {
		t.Artist = *p.Artist
	}
	if p.Album != nil {
		t.Album = *p.Album
	}
	if p.Genre != nil {
		t.Genre = *p.Genre
	}
	if p.Label != nil {
		t.Label = *p.Label
	}
	if p.Year != nil {
		t.Year = *p.Year
	}
	if p.BPM != nil {
		t.BPM = *p.BPM
	}
	if p.Key != nil {
		t.Key = *p.Key
	}
	if p.ISRC != nil {
		t.ISRC = *p.ISRC
	}
	if p.CatalogNumber != nil {
		t.CatalogNumber = *p.CatalogNumber
	}
	if p.ArtworkURL != nil {
		t.ArtworkURL = *p.ArtworkURL
	}
}

// ListFilter narrows List results to a library subset.
type ListFilter string

const (
	FilterAll        ListFilter = "all"
	FilterLinked     ListFilter = "linked"
	FilterUnlinked   ListFilter = "unlinked"
	FilterMissingBPM ListFilter = "missing-bpm"
)

var listFilters = map[ListFilter]struct{}{
	FilterAll:        {},
	FilterLinked:     {},
	FilterUnlinked:   {},
	FilterMissingBPM: {},
}

// ParseListFilter converts a string into a known ListFilter.
func ParseListFilter(value string) (ListFilter, bool) {
	normalized := ListFilter(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return FilterAll, true
	}
	_, ok := listFilters[normalized]
	return normalized, ok
}

// Stats summarizes library contents for status output.
type Stats struct {
	Total      int
	Linked     int
	MissingBPM int
}

// DatabaseHealth captures diagnostic information about the library database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalTracks      int
	Error            string
}
