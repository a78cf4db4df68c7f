package match_test

import (
	"math"
	"testing"

	"stylus/internal/config"
	"stylus/internal/match"
)

func newScorer() *match.Scorer {
	return match.NewScorer(config.Default().Matcher)
}

func TestScoreCloseMatchScoresHigh(t *testing.T) {
	scorer := newScorer()

	local := match.Track{Title: "Strobe", Artist: "deadmau5", DurationSeconds: 637}
	candidate := match.Track{Title: "Strobe", Artist: "deadmau5", DurationSeconds: 635}

	score := scorer.Score(local, candidate)
	if score <= 0.9 {
		t.Fatalf("Score() = %v, want > 0.9", score)
	}
	if score > 1 {
		t.Fatalf("Score() = %v, want <= 1", score)
	}
}

func TestScoreMixNameMatchesInlineTitle(t *testing.T) {
	scorer := newScorer()

	local := match.Track{Title: "Strobe (Club Edit)", Artist: "deadmau5", DurationSeconds: 397}
	candidate := match.Track{Title: "Strobe", MixName: "Club Edit", Artist: "deadmau5", DurationSeconds: 397}

	if score := scorer.Score(local, candidate); score < 0.95 {
		t.Fatalf("Score() = %v, want >= 0.95", score)
	}
}

func TestScoreDiacriticsAndCaseInsensitive(t *testing.T) {
	scorer := newScorer()

	local := match.Track{Title: "DÉJÀ VU", Artist: "Beyoncé"}
	candidate := match.Track{Title: "Deja Vu", Artist: "beyonce"}

	if score := scorer.Score(local, candidate); score < 0.95 {
		t.Fatalf("Score() = %v, want >= 0.95", score)
	}
}

func TestScoreArtistOrderInsensitive(t *testing.T) {
	scorer := newScorer()

	a := scorer.Score(
		match.Track{Title: "Sun & Moon", Artist: "Above & Beyond feat. Richard Bedford"},
		match.Track{Title: "Sun & Moon", Artist: "Richard Bedford feat. Above & Beyond"},
	)
	b := scorer.Score(
		match.Track{Title: "Sun & Moon", Artist: "Above & Beyond feat. Richard Bedford"},
		match.Track{Title: "Sun & Moon", Artist: "Above & Beyond feat. Richard Bedford"},
	)

	if math.Abs(a-b) > 0.02 {
		t.Fatalf("reordered artists scored %v, same-order scored %v", a, b)
	}
}

func TestScoreMissingDurationKeepsTextWeight(t *testing.T) {
	scorer := newScorer()

	local := match.Track{Title: "Opus", Artist: "Eric Prydz", DurationSeconds: 540}
	candidate := match.Track{Title: "Opus", Artist: "Eric Prydz"}

	score := scorer.Score(local, candidate)
	if math.Abs(score-1.0) > 1e-9 {
		t.Fatalf("Score() = %v, want 1.0 when candidate duration unknown", score)
	}
}

func TestScoreDurationDecay(t *testing.T) {
	scorer := newScorer()
	local := match.Track{Title: "Opus", Artist: "Eric Prydz", DurationSeconds: 540}

	cases := []struct {
		name     string
		duration float64
		want     float64
	}{
		{"inside tolerance", 542, 1.0},
		{"midway to cutoff", 540 + 16.5, 0.9},
		{"beyond cutoff", 540 + 45, 0.8},
	}
	for _, tc := range cases {
		candidate := match.Track{Title: "Opus", Artist: "Eric Prydz", DurationSeconds: tc.duration}
		got := scorer.Score(local, candidate)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: Score() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestScoreUnrelatedTracksScoreLow(t *testing.T) {
	scorer := newScorer()

	local := match.Track{Title: "Strobe", Artist: "deadmau5", DurationSeconds: 637}
	candidate := match.Track{Title: "Windowlicker", Artist: "Aphex Twin", DurationSeconds: 366}

	if score := scorer.Score(local, candidate); score >= 0.5 {
		t.Fatalf("Score() = %v, want < 0.5 for unrelated tracks", score)
	}
}

func TestScoreDeterministic(t *testing.T) {
	scorer := newScorer()

	local := match.Track{Title: "Strobe (Club Edit)", Artist: "deadmau5", DurationSeconds: 397}
	candidate := match.Track{Title: "Strobe", MixName: "Club Edit", Artist: "deadmau5", DurationSeconds: 399}

	first := scorer.Score(local, candidate)
	for i := 0; i < 5; i++ {
		if got := scorer.Score(local, candidate); got != first {
			t.Fatalf("Score() varied between calls: %v then %v", first, got)
		}
	}
}
