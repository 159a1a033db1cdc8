package match_test

import (
	"testing"

	"autotag/internal/match"
	"autotag/internal/providers/discogs"
)

func TestScoreCandidatePerfectMatchClamps(t *testing.T) {
	id := match.Identity{
		Artist:       "Afro Medusa",
		Title:        "Pasilda",
		ReleaseTitle: "Pasilda",
		Country:      "UK",
		Year:         2000,
	}
	cand := discogs.Candidate{
		RawTitle: "Afro Medusa - Pasilda",
		Title:    "Pasilda",
		Artist:   "Afro Medusa",
		Year:     "2000",
		Country:  "UK",
		Formats:  []string{"Vinyl"},
	}
	if got := match.ScoreCandidate(id, cand); got != 1.0 {
		t.Fatalf("score = %v, want clamped 1.0", got)
	}
}

func TestScoreCandidateYearBuckets(t *testing.T) {
	id := match.Identity{Title: "Pasilda", Year: 2000}
	tests := []struct {
		candYear string
		want     float64
	}{
		{"2000", 0.5},
		{"2001", 0.4},
		{"2003", 0.35},
		{"2010", 0.32},
		{"2015", 0.25},
		{"", 0.3},
	}
	for _, tt := range tests {
		t.Run("year "+tt.candYear, func(t *testing.T) {
			cand := discogs.Candidate{RawTitle: "Pasilda", Title: "Pasilda", Year: tt.candYear}
			if got := match.ScoreCandidate(id, cand); got != tt.want {
				t.Fatalf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreCandidatePenalizesCompilations(t *testing.T) {
	id := match.Identity{Artist: "Afro Medusa", Title: "Pasilda", ReleaseTitle: "Pasilda"}
	single := discogs.Candidate{
		RawTitle: "Afro Medusa - Pasilda",
		Title:    "Pasilda",
		Artist:   "Afro Medusa",
		Formats:  []string{"CD"},
	}
	compilation := single
	compilation.RawTitle = "Various - Best of Dance Pasilda"
	compilation.Formats = []string{"CD", "Compilation"}

	mixed := single
	mixed.Formats = []string{"CD", "Mixed"}

	base := match.ScoreCandidate(id, single)
	if comp := match.ScoreCandidate(id, compilation); comp >= base {
		t.Fatalf("compilation %v not penalized against %v", comp, base)
	}
	if m := match.ScoreCandidate(id, mixed); m >= base {
		t.Fatalf("mixed CD %v not penalized against %v", m, base)
	}
}

func TestScoreCandidateDJMixBonus(t *testing.T) {
	id := match.Identity{Title: "Pasilda (Club Mix)", ReleaseTitle: "Deep House Grooves"}
	cand := discogs.Candidate{
		RawTitle: "Afro Medusa - Pasilda (Club Mix)",
		Title:    "Pasilda (Club Mix)",
		Styles:   []string{"Progressive House"},
	}
	// 0.30 title weight plus 0.10 shared mix markers plus 0.05 shared style.
	if got := match.ScoreCandidate(id, cand); got != 0.45 {
		t.Fatalf("score = %v, want 0.45", got)
	}
}

func TestBuildQueries(t *testing.T) {
	full := match.Identity{Artist: "Afro Medusa", Title: "Pasilda", ReleaseTitle: "Pasilda", Year: 2000}
	queries := match.BuildQueries(full)
	if len(queries) != 3 {
		t.Fatalf("expected 3 query variants, got %d", len(queries))
	}
	if queries[0].TrackTitle != "Pasilda" || queries[0].Artist != "Afro Medusa" {
		t.Errorf("unexpected first variant: %+v", queries[0])
	}
	if queries[1].ReleaseTitle != "Pasilda" {
		t.Errorf("unexpected second variant: %+v", queries[1])
	}
	if queries[2].Artist != "" || queries[2].TrackTitle != "Pasilda" {
		t.Errorf("unexpected third variant: %+v", queries[2])
	}

	placeholder := match.Identity{Artist: "Afro Medusa", Title: "Pasilda", ReleaseTitle: "Unknown Album"}
	if got := len(match.BuildQueries(placeholder)); got != 2 {
		t.Fatalf("placeholder album must be skipped, got %d variants", got)
	}

	titleOnly := match.Identity{Title: "Pasilda"}
	if got := len(match.BuildQueries(titleOnly)); got != 1 {
		t.Fatalf("title-only identity must build 1 variant, got %d", got)
	}

	if got := len(match.BuildQueries(match.Identity{})); got != 0 {
		t.Fatalf("empty identity must build no variants, got %d", got)
	}
}
