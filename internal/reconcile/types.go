package reconcile

import (
	"stylus/internal/catalog"
	"stylus/internal/library"
	"stylus/internal/tagmerge"
)

// Mode selects how much of a matched catalog record a batch writes back.
type Mode string

const (
	// ModeAutomatic applies the full merged tag set of the best candidate.
	ModeAutomatic Mode = "automatic"
	// ModeArtworkOnly restricts the merge to the artwork URL tag.
	ModeArtworkOnly Mode = "artwork-only"
)

func (m Mode) mergeScope() tagmerge.Scope {
	if m == ModeArtworkOnly {
		return tagmerge.ScopeArtworkOnly
	}
	return tagmerge.ScopeFull
}

// Phase names the pipeline step a progress event reports.
type Phase string

const (
	PhaseSearching    Phase = "searching"
	PhaseDownloading  Phase = "downloading"
	PhaseApplyingTags Phase = "applying_tags"
	PhaseComplete     Phase = "complete"
)

// ProgressEvent reports how far a batch has advanced. Index is 1-based so
// the event reads as "Index of Total".
type ProgressEvent struct {
	Index      int
	Total      int
	TrackTitle string
	Phase      Phase
}

// Result records the outcome for a single track. Applied carries the patch
// that was written; it is empty when nothing needed to change. Error can be
// set on a successful result when the library row failed to update after the
// file tags were already written.
type Result struct {
	TrackID   int64
	Success   bool
	CatalogID int64
	Applied   library.TagPatch
	Error     string
}

// AppliedFields lists the tag field names the batch wrote for this track.
func (r Result) AppliedFields() []string {
	return r.Applied.Fields()
}

// BatchResult aggregates per-track outcomes for one reconciliation run.
// SuccessCount plus FailedCount always equals Total, which always equals
// len(Results).
type BatchResult struct {
	BatchID      string
	Total        int
	SuccessCount int
	FailedCount  int
	Results      []Result
}

func (b *BatchResult) add(result Result) {
	b.Results = append(b.Results, result)
	b.Total++
	if result.Success {
		b.SuccessCount++
	} else {
		b.FailedCount++
	}
}

// CandidateSet holds one track's search outcome while it waits for a manual
// decision. Candidates is empty when nothing cleared the score threshold or
// the search failed; SearchError says which.
type CandidateSet struct {
	TrackID         int64               `json:"track_id"`
	Title           string              `json:"title"`
	Artist          string              `json:"artist"`
	Filename        string              `json:"filename,omitempty"`
	DurationSeconds float64             `json:"duration_seconds,omitempty"`
	Candidates      []catalog.Candidate `json:"candidates"`
	SearchError     string              `json:"search_error,omitempty"`
}

// Selection pairs a track with the catalog id chosen for it. A zero
// CatalogID means the user confirmed the track is not in the catalog.
type Selection struct {
	TrackID   int64 `json:"track_id"`
	CatalogID int64 `json:"catalog_id"`
}

// SearchSummary is the outcome of a search-only batch.
type SearchSummary struct {
	BatchID           string         `json:"batch_id"`
	Tracks            []CandidateSet `json:"tracks"`
	Total             int            `json:"total"`
	WithCandidates    int            `json:"with_candidates"`
	WithoutCandidates int            `json:"without_candidates"`
}

func (s *SearchSummary) add(set CandidateSet) {
	s.Tracks = append(s.Tracks, set)
	s.Total++
	if len(set.Candidates) > 0 {
		s.WithCandidates++
	} else {
		s.WithoutCandidates++
	}
}
