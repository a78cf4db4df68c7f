package match

import (
	"math"
	"sort"
)

// Ranked carries one scored candidate through filtering and ordering.
// Index points back into the caller's candidate slice.
type Ranked struct {
	Index         int
	Score         float64
	DurationDelta float64
}

// Rank scores local against each candidate, drops entries below minScore,
// orders the survivors best first, and truncates to maxResults. Candidates
// whose scores sit within the configured epsilon of each other are reordered
// so the closer duration wins.
func (s *Scorer) Rank(local Track, candidates []Track, minScore float64, maxResults int) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for i, candidate := range candidates {
		score := s.Score(local, candidate)
		if score < minScore {
			continue
		}
		delta := math.MaxFloat64
		if local.DurationSeconds > 0 && candidate.DurationSeconds > 0 {
			delta = math.Abs(local.DurationSeconds - candidate.DurationSeconds)
		}
		ranked = append(ranked, Ranked{Index: i, Score: score, DurationDelta: delta})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	s.breakDurationTies(ranked)

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

// breakDurationTies reorders runs of near-equal scores by duration delta.
// Grouping against the run head keeps the comparison transitive, which a
// plain epsilon comparator inside sort.Slice would not be.
func (s *Scorer) breakDurationTies(ranked []Ranked) {
	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && ranked[start].Score-ranked[end].Score <= s.epsilon {
			end++
		}
		if end-start > 1 {
			run := ranked[start:end]
			sort.SliceStable(run, func(i, j int) bool {
				if run[i].DurationDelta != run[j].DurationDelta {
					return run[i].DurationDelta < run[j].DurationDelta
				}
				return run[i].Score > run[j].Score
			})
		}
		start = end
	}
}
