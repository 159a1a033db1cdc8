package spotify

import (
	"math"
	"regexp"
	"strings"

	"autotag/internal/textutil"
)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// cleanTokens lowercases, folds accents, and turns punctuation into spaces
// so "we.amps" and "we amps" compare equal.
func cleanTokens(s string) string {
	s = textutil.FoldAccents(strings.ToLower(s))
	s = nonAlnumPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func pairSim(a, b string) float64 {
	sim := jaccard(a, b)
	if a != "" && b != "" && (strings.Contains(a, b) || strings.Contains(b, a)) {
		sim = math.Max(sim, 0.9)
	}
	return sim
}

// Score rates a returned track against the searched identity. With a search
// artist present the result is the better of the direct pairing and the
// swapped pairing, which catches files tagged "Title - Artist". With an
// empty search artist the search title is assumed to hold both names and is
// compared against the combined result string.
func Score(searchArtist, searchTitle, resultArtist, resultTitle string) float64 {
	sa := cleanTokens(searchArtist)
	st := cleanTokens(searchTitle)
	ra := cleanTokens(resultArtist)
	rt := cleanTokens(resultTitle)

	if sa == "" {
		full := strings.TrimSpace(ra + " " + rt)
		score := jaccard(st, full)
		if st != "" && full != "" && (strings.Contains(st, full) || strings.Contains(full, st)) {
			score = math.Max(score, 0.8)
		}
		return round6(score)
	}

	direct := pairSim(sa, ra)*0.4 + pairSim(st, rt)*0.6
	swapped := pairSim(sa, rt)*0.4 + pairSim(st, ra)*0.6
	return round6(math.Max(direct, swapped))
}

// round6 keeps threshold comparisons stable.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
