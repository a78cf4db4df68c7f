package match

import (
	"math"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"stylus/internal/config"
	"stylus/internal/textutil"
)

// Track is the minimal view the scorer needs of either side of a comparison.
// MixName is only ever set on the catalog side; local titles carry the mix
// inline ("Strobe (Club Edit)").
type Track struct {
	Title           string
	MixName         string
	Artist          string
	DurationSeconds float64
}

// Title similarity outweighs artist similarity inside the text component:
// catalogs agree on artist spelling far more often than on title spelling,
// so the title carries most of the signal.
const (
	titleShare  = 0.65
	artistShare = 0.35
)

// Scorer computes similarity scores in [0,1] between a local track and a
// catalog candidate.
type Scorer struct {
	textWeight     float64
	durationWeight float64
	tolerance      float64
	cutoff         float64
	epsilon        float64
	jaro           *metrics.JaroWinkler
}

// NewScorer builds a scorer from the matcher configuration section.
func NewScorer(cfg config.Matcher) *Scorer {
	return &Scorer{
		textWeight:     cfg.TextWeight,
		durationWeight: cfg.DurationWeight,
		tolerance:      cfg.DurationToleranceSeconds,
		cutoff:         cfg.DurationCutoffSeconds,
		epsilon:        cfg.ScoreEpsilon,
		jaro:           metrics.NewJaroWinkler(),
	}
}

// Score combines text similarity over title and artist with duration
// closeness. When either side lacks a duration the text component carries
// the full weight instead of penalizing the candidate.
func (s *Scorer) Score(local, candidate Track) float64 {
	text := s.textScore(local, candidate)
	if local.DurationSeconds <= 0 || candidate.DurationSeconds <= 0 {
		return clamp01(text)
	}

	total := s.textWeight + s.durationWeight
	if total <= 0 {
		return clamp01(text)
	}
	duration := s.durationScore(local.DurationSeconds, candidate.DurationSeconds)
	return clamp01((s.textWeight*text + s.durationWeight*duration) / total)
}

func (s *Scorer) textScore(local, candidate Track) float64 {
	title := s.titleSimilarity(local, candidate)
	artist := s.artistSimilarity(local.Artist, candidate.Artist)
	return titleShare*title + artistShare*artist
}

// titleSimilarity compares every plausible pairing of local and candidate
// title forms and keeps the best. Local titles often carry the mix inline
// while catalogs split it into a separate field, so "Strobe (Club Edit)"
// must match {Title: "Strobe", MixName: "Club Edit"} at full strength.
func (s *Scorer) titleSimilarity(local, candidate Track) float64 {
	localForms := []string{local.Title}
	if stripped := textutil.StripBracketed(local.Title); stripped != local.Title {
		localForms = append(localForms, stripped)
	}

	candidateForms := []string{candidate.Title}
	if candidate.MixName != "" {
		candidateForms = append(candidateForms, candidate.Title+" ("+candidate.MixName+")")
	}

	best := 0.0
	for _, localForm := range localForms {
		for _, candidateForm := range candidateForms {
			if sim := s.textSimilarity(localForm, candidateForm); sim > best {
				best = sim
			}
		}
	}
	return best
}

// artistSimilarity is order-insensitive: "Above & Beyond" and
// "Beyond & Above" compare equal, as do differently ordered collab credits.
func (s *Scorer) artistSimilarity(local, candidate string) float64 {
	localNorm := textutil.Normalize(local)
	candidateNorm := textutil.Normalize(candidate)
	if localNorm == "" || candidateNorm == "" {
		return 0
	}

	cosine := textutil.CosineSimilarity(textutil.NewFingerprint(localNorm), textutil.NewFingerprint(candidateNorm))
	jaro := strutil.Similarity(textutil.SortedTokens(local), textutil.SortedTokens(candidate), s.jaro)
	return math.Max(cosine, jaro)
}

func (s *Scorer) textSimilarity(a, b string) float64 {
	normA := textutil.Normalize(a)
	normB := textutil.Normalize(b)
	if normA == "" || normB == "" {
		return 0
	}

	jaro := strutil.Similarity(normA, normB, s.jaro)
	cosine := textutil.CosineSimilarity(textutil.NewFingerprint(normA), textutil.NewFingerprint(normB))
	return math.Max(jaro, cosine)
}

// durationScore grants full credit inside the tolerance window and decays
// linearly to zero at the cutoff.
func (s *Scorer) durationScore(local, remote float64) float64 {
	diff := math.Abs(local - remote)
	if diff <= s.tolerance {
		return 1
	}
	if s.cutoff <= s.tolerance || diff >= s.cutoff {
		return 0
	}
	return 1 - (diff-s.tolerance)/(s.cutoff-s.tolerance)
}

func clamp01(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}
