package textutil

import "strings"

// remixKeywords mark variant forms of a track title. Detection runs on the
// raw lowercased input because Normalize strips the parentheticals that
// usually carry them.
var remixKeywords = []string{
	"remix",
	"extended",
	"club mix",
	"mix",
	"edit",
	"dub",
	"instrumental",
	"radio edit",
	"version",
	"bootleg",
}

// BasicSimilarity scores two strings in [0, 1]: 1.0 for an exact match after
// normalization, 0.8 when one normalized string contains the other, otherwise
// Jaccard similarity over their whitespace token sets. Either side empty
// scores 0.
func BasicSimilarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}
	return jaccard(fieldSet(na), fieldSet(nb))
}

// TitleSimilarity is BasicSimilarity adjusted for remix variants: +0.5 when
// both titles carry a remix keyword, -0.2 when only one does. The result is
// clamped to [0, 1].
func TitleSimilarity(a, b string) float64 {
	score := BasicSimilarity(a, b) + remixBonus(a, b)
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

// HasRemixKeyword reports whether the raw lowercased input mentions a remix
// variant form.
func HasRemixKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range remixKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func remixBonus(a, b string) float64 {
	ra := HasRemixKeyword(a)
	rb := HasRemixKeyword(b)
	switch {
	case ra && rb:
		return 0.5
	case ra != rb:
		return -0.2
	default:
		return 0
	}
}

func fieldSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
