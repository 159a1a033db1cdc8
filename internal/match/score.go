package match

import (
	"math"
	"regexp"
	"strings"

	"autotag/internal/providers/discogs"
	"autotag/internal/textutil"
)

// Weights of the per-field similarities in a catalog candidate's score.
const (
	weightArtist       = 0.40
	weightTitle        = 0.30
	weightReleaseTitle = 0.20
)

// Catalog titles and formats that mark a compilation. The candidate-side
// list is wider: catalog search results name compilations in more ways than
// the encyclopedia does.
var (
	candCompilationKeywords = []string{
		"best of", "greatest hits", "compilation", "the very best",
		"anthology", "various", "collection", "hits", "dance anthems",
	}
	knownCompilationKeywords = []string{
		"best of", "greatest hits", "compilation",
		"anthology", "various", "collection",
	}
)

// Variant markers shared between a known identity and a catalog entry hint
// that both describe the same DJ-oriented pressing.
var djMixKeywords = []string{
	"remix", "club", "extended", "edit", "dub",
	"bootleg", "rework", "version", "mix",
}

// Dance-genre styles used for the co-occurrence bonus.
var genreStyleKeywords = []string{
	"house", "techno", "trance", "progressive", "electro",
	"dance", "disco", "garage", "breakbeat", "downtempo", "edm",
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// ScoreCandidate rates a catalog search hit against the known identity. The
// result is clamped to [0, 1].
func ScoreCandidate(id Identity, cand discogs.Candidate) float64 {
	artistSim := textutil.TokenJaccard(id.Artist, cand.Artist)
	titleSim := textutil.TokenJaccard(id.Title, cand.Title)
	releaseTitleSim := textutil.TokenJaccard(id.ReleaseTitle, cand.Title)

	score := weightArtist*artistSim + weightTitle*titleSim + weightReleaseTitle*releaseTitleSim
	score += yearScore(id.Year, candidateYear(cand))
	score += compilationPenalty(id, cand)
	country := countryBonus(id, cand)
	score += country

	if releaseTitleSim >= 0.75 {
		score += 0.10
		if country > 0 {
			score += 0.05
		}
	}

	score += djMixBonus(id, cand)

	score = math.Min(math.Max(score, 0), 1)
	return round6(score)
}

func candidateYear(cand discogs.Candidate) int {
	m := yearPattern.FindString(cand.Year)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}

func yearScore(known, cand int) float64 {
	if known == 0 || cand == 0 {
		return 0
	}
	diff := known - cand
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 0.20
	case diff <= 1:
		return 0.10
	case diff <= 3:
		return 0.05
	case diff <= 10:
		return 0.02
	default:
		return -0.05
	}
}

func compilationPenalty(id Identity, cand discogs.Candidate) float64 {
	candText := strings.ToLower(cand.RawTitle)
	formats := strings.ToLower(strings.Join(cand.Formats, " "))
	candIsCompilation := containsAny(candText, candCompilationKeywords) ||
		strings.Contains(formats, "compilation")
	knownIsCompilation := containsAny(strings.ToLower(id.ReleaseTitle), knownCompilationKeywords)

	penalty := 0.0
	switch {
	case candIsCompilation && !knownIsCompilation:
		penalty -= 0.20
	case candIsCompilation:
		penalty -= 0.10
	}
	// A mixed CD carries continuous transitions; wrong source for a single
	// track unless the local release is itself a compilation.
	if strings.Contains(formats, "mixed") && !knownIsCompilation {
		penalty -= 0.10
	}
	return penalty
}

func countryBonus(id Identity, cand discogs.Candidate) float64 {
	if id.Country != "" && cand.Country != "" && strings.EqualFold(id.Country, cand.Country) {
		return 0.05
	}
	return 0
}

func djMixBonus(id Identity, cand discogs.Candidate) float64 {
	bonus := 0.0
	knownText := strings.ToLower(id.Title + " " + id.ReleaseTitle)
	candText := strings.ToLower(cand.RawTitle)
	if containsAny(knownText, djMixKeywords) && containsAny(candText, djMixKeywords) {
		bonus += 0.10
	}
	styles := strings.ToLower(strings.Join(cand.Styles, " "))
	if containsAny(styles, genreStyleKeywords) && containsAny(knownText, genreStyleKeywords) {
		bonus += 0.05
	}
	return bonus
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// round6 keeps threshold comparisons stable.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
