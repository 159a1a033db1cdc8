package identify

import (
	"math"
	"path/filepath"
	"strings"

	"autotag/internal/textutil"
)

// Filename fragments left behind by stream rippers and download sites.
var ripPatterns = []string{
	"y2mate",
	"youtube",
	"youtu.be",
	"web-rip",
	"webrip",
	"soundcloud",
	"mixcloud",
	"rip ",
	" rip-",
	"rip]",
	"[free download]",
	" free download",
	" [free]",
}

// Markers of unofficial reworks that no catalog will carry under the
// original identity.
var mashupPatterns = []string{
	"mashup",
	"bootleg",
	"rework",
	"re-edit",
	"re edit",
	"private edit",
	"extended edit",
	"unofficial",
	" vs ",
	" vs.",
	"vs.",
	" edit by ",
	"bootleg mix",
}

// Sanity measures how well a provider's proposed identity agrees with the
// local evidence (filename and pre-existing tags).
type Sanity struct {
	Score     float64
	ArtistSim float64
	TitleSim  float64
	RipFlag   bool
	Mashup    bool
}

// Flagged reports whether the local evidence looks like an unofficial rip or
// rework.
func (s Sanity) Flagged() bool {
	return s.RipFlag || s.Mashup
}

// AnalyzeSanity compares the filename and embedded tags against the identity
// a provider proposed. All comparisons are token-Jaccard; the overall score
// is the most charitable of filename-vs-combined, tags-vs-combined, and the
// per-field average.
func AnalyzeSanity(filename, tagTitle, tagArtist, proposedArtist, proposedTitle string) Sanity {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.ReplaceAll(stem, "_", " ")

	localTitle := strings.TrimSpace(stem + " " + tagTitle)
	localArtist := strings.TrimSpace(stem + " " + tagArtist)

	artistSim := math.Max(
		textutil.TokenJaccard(localArtist, proposedArtist),
		textutil.TokenJaccard(tagArtist, proposedArtist),
	)
	titleSim := math.Max(
		textutil.TokenJaccard(localTitle, proposedTitle),
		textutil.TokenJaccard(tagTitle, proposedTitle),
	)

	combined := strings.TrimSpace(proposedArtist + " " + proposedTitle)
	score := math.Max(
		textutil.TokenJaccard(stem, combined),
		textutil.TokenJaccard(strings.TrimSpace(tagArtist+" "+tagTitle), combined),
	)
	if artistSim > 0 || titleSim > 0 {
		score = math.Max(score, (artistSim+titleSim)/2)
	}

	localText := strings.ToLower(base + " " + tagTitle + " " + tagArtist)
	return Sanity{
		Score:     round6(score),
		ArtistSim: round6(artistSim),
		TitleSim:  round6(titleSim),
		RipFlag:   containsAny(localText, ripPatterns),
		Mashup:    containsAny(localText, mashupPatterns),
	}
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
