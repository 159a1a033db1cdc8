package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalPattern = regexp.MustCompile(`\s*[(\[][^)\]]*[)\]]`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
	tokenPattern         = regexp.MustCompile(`[a-z0-9]+`)
)

// quoteReplacer unifies unicode quote variants before comparison.
var quoteReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
	"´", "'",
	"`", "'",
)

// Normalize prepares a title or artist string for comparison: lowercase,
// parenthetical and bracketed segments stripped, quote variants unified,
// " - " separators flattened, whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = quoteReplacer.Replace(s)
	s = parentheticalPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " - ", " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FoldAccents strips diacritical marks ("Beyoncé" becomes "Beyonce").
// Input that fails to transform is returned unchanged.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Tokenize lowercases s and returns its maximal [a-z0-9]+ runs.
func Tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// TokenJaccard computes Jaccard similarity over the [a-z0-9]+ token sets of
// the two inputs. Empty inputs yield 0.
func TokenJaccard(a, b string) float64 {
	return jaccard(TokenSet(a), TokenSet(b))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
