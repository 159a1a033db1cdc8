package identify

import (
	"sort"
	"strings"

	"autotag/internal/providers/musicbrainz"
)

// Album titles that mark a generic compilation rather than the track's own
// release.
var compilationKeywords = []string{
	"best of",
	"greatest hits",
	"the very best",
	"dance anthems",
	"hits of",
	"mega hits",
	"collection",
	"collections",
	"anthology",
	"various artists",
}

// LooksLikeCompilation reports whether a release title reads as a generic
// compilation.
func LooksLikeCompilation(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range compilationKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

type releaseKey struct {
	officialRank    int
	titleMatchRank  int
	compilationRank int
	dateKey         string
}

func (a releaseKey) less(b releaseKey) bool {
	if a.officialRank != b.officialRank {
		return a.officialRank < b.officialRank
	}
	if a.titleMatchRank != b.titleMatchRank {
		return a.titleMatchRank < b.titleMatchRank
	}
	if a.compilationRank != b.compilationRank {
		return a.compilationRank < b.compilationRank
	}
	return a.dateKey < b.dateKey
}

// missingDateKey sorts undated releases after every real date. Lexicographic
// comparison is valid because MusicBrainz dates are zero-padded YYYY or
// YYYY-MM-DD strings.
const missingDateKey = "9999-99-99"

func keyFor(rel musicbrainz.Release, recordingTitle string) releaseKey {
	key := releaseKey{officialRank: 1, titleMatchRank: 1, dateKey: missingDateKey}

	if strings.EqualFold(strings.TrimSpace(rel.Status), "official") {
		key.officialRank = 0
	}

	recTitle := strings.ToLower(strings.TrimSpace(recordingTitle))
	relTitle := strings.ToLower(strings.TrimSpace(rel.Title))
	if recTitle != "" && relTitle != "" &&
		(strings.Contains(relTitle, recTitle) || strings.Contains(recTitle, relTitle)) {
		key.titleMatchRank = 0
	}

	if LooksLikeCompilation(relTitle) {
		key.compilationRank = 1
	}

	if rel.Date != "" {
		key.dateKey = rel.Date
	}
	return key
}

// SelectRelease picks the release that best represents the recording's own
// appearance: official over unofficial, title-matched over not, original
// releases over compilations, and the earliest date within each class.
func SelectRelease(recordingTitle string, releases []musicbrainz.Release) (musicbrainz.Release, bool) {
	if len(releases) == 0 {
		return musicbrainz.Release{}, false
	}

	sorted := make([]musicbrainz.Release, len(releases))
	copy(sorted, releases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return keyFor(sorted[i], recordingTitle).less(keyFor(sorted[j], recordingTitle))
	})
	return sorted[0], true
}
