package textutil_test

import (
	"math"
	"testing"

	"autotag/internal/textutil"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "One More Time", "one more time"},
		{"strips parenthetical", "Around the World (Radio Edit)", "around the world"},
		{"strips bracketed", "Song [Live]", "song"},
		{"unifies quotes", "Don’t Stop", "don't stop"},
		{"flattens separator", "Artist - Title", "artist title"},
		{"collapses whitespace", "  two   words  ", "two words"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestFoldAccents(t *testing.T) {
	if got := textutil.FoldAccents("Beyoncé"); got != "Beyonce" {
		t.Fatalf("FoldAccents = %q", got)
	}
	if got := textutil.FoldAccents("Röyksopp"); got != "Royksopp" {
		t.Fatalf("FoldAccents = %q", got)
	}
}

func TestBasicSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact after normalization", "One More Time", "one more time", 1.0},
		{"substring", "One More Time", "One More", 0.8},
		{"jaccard one of three", "alpha beta", "alpha gamma", 1.0 / 3.0},
		{"disjoint", "alpha", "beta", 0},
		{"empty left", "", "something", 0},
		{"empty right", "something", "", 0},
		{"symmetric substring", "More", "One More Time", 0.8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := textutil.BasicSimilarity(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Fatalf("BasicSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			reversed := textutil.BasicSimilarity(tc.b, tc.a)
			if !almostEqual(got, reversed) {
				t.Fatalf("similarity not symmetric: %v vs %v", got, reversed)
			}
		})
	}
}

func TestTitleSimilarityRemixAdjustment(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"both remix variants", "Song (Club Mix)", "Song (Extended Remix)", 1.0},
		{"one sided remix penalty", "Song (Remix)", "Song", 0.8},
		{"no keywords", "Song", "Song", 1.0},
		{"clamped low", "Alpha (Remix)", "Beta", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := textutil.TitleSimilarity(tc.a, tc.b)
			if !almostEqual(got, tc.want) {
				t.Fatalf("TitleSimilarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestTokenJaccard(t *testing.T) {
	if got := textutil.TokenJaccard("Daft Punk", "Punk, Daft"); !almostEqual(got, 1.0) {
		t.Fatalf("expected identical token sets, got %v", got)
	}
	if got := textutil.TokenJaccard("Daft Punk", "Daft House"); !almostEqual(got, 1.0/3.0) {
		t.Fatalf("expected 1/3, got %v", got)
	}
	if got := textutil.TokenJaccard("", "anything"); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestTokenize(t *testing.T) {
	got := textutil.Tokenize("AC/DC - T.N.T. (Live '77)")
	want := []string{"ac", "dc", "t", "n", "t", "live", "77"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
}
