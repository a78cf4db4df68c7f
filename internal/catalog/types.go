package catalog

import "strconv"

// Candidate is one catalog search hit proposed as a match for a local track.
// Score is computed locally and never comes from the wire.
type Candidate struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	MixName         string  `json:"mix_name"`
	Artists         string  `json:"artists"`
	BPM             float64 `json:"bpm"`
	Key             string  `json:"key"`
	DurationSeconds float64 `json:"duration_seconds"`
	ArtworkURL      string  `json:"artwork_url"`
	Genre           string  `json:"genre"`
	Label           string  `json:"label"`
	ReleaseDate     string  `json:"release_date"`
	Score           float64 `json:"-"`
}

// FullTitle renders the title with the mix name appended the way local
// libraries tag it.
func (c Candidate) FullTitle() string {
	if c.MixName == "" {
		return c.Title
	}
	return c.Title + " (" + c.MixName + ")"
}

// Track is the complete tag set for one catalog entry, fetched from the
// detail endpoint before tags are applied.
type Track struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	MixName         string  `json:"mix_name"`
	Artists         string  `json:"artists"`
	Album           string  `json:"album"`
	Genre           string  `json:"genre"`
	Label           string  `json:"label"`
	Year            int     `json:"year"`
	BPM             float64 `json:"bpm"`
	Key             string  `json:"key"`
	ISRC            string  `json:"isrc"`
	CatalogNumber   string  `json:"catalog_number"`
	ArtworkURL      string  `json:"artwork_url"`
	DurationSeconds float64 `json:"duration_seconds"`
	ReleaseDate     string  `json:"release_date"`
}

// FullTitle renders the title with the mix name appended.
func (t Track) FullTitle() string {
	if t.MixName == "" {
		return t.Title
	}
	return t.Title + " (" + t.MixName + ")"
}

// ReleaseYear returns the explicit year when present, otherwise the year
// parsed from the release date. Zero means unknown.
func (t Track) ReleaseYear() int {
	if t.Year != 0 {
		return t.Year
	}
	if len(t.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(t.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// searchResponse models the catalog search payload.
type searchResponse struct {
	Results []Candidate `json:"results"`
}
