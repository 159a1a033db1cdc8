package identify

import (
	"strings"

	"autotag/internal/textutil"
)

// Reference is the locally known identity a fingerprint candidate is judged
// against: embedded tags when present, otherwise the cleaned filename.
type Reference struct {
	Title    string
	Artist   string
	FromTags bool
}

// Placeholder values some rippers write instead of real tags.
var placeholderValues = map[string]struct{}{
	"unknown":        {},
	"unknown artist": {},
	"unknown title":  {},
	"unknown album":  {},
	"untitled":       {},
	"track":          {},
	"audiotrack":     {},
	"no artist":      {},
}

func isPlaceholder(s string) bool {
	_, ok := placeholderValues[strings.ToLower(strings.TrimSpace(s))]
	return ok || strings.TrimSpace(s) == ""
}

// ResolveReference derives the reference identity from embedded tags, filling
// any missing or placeholder field from the cleaned filename.
func ResolveReference(tagTitle, tagArtist, filename string) Reference {
	ref := Reference{}
	if !isPlaceholder(tagTitle) {
		ref.Title = strings.TrimSpace(tagTitle)
		ref.FromTags = true
	}
	if !isPlaceholder(tagArtist) {
		ref.Artist = strings.TrimSpace(tagArtist)
		ref.FromTags = true
	}

	if (ref.Title == "" || ref.Artist == "") && filename != "" {
		fileArtist, fileTitle := textutil.SplitArtistTitle(textutil.CleanFilename(filename))
		if ref.Title == "" {
			ref.Title = fileTitle
		}
		if ref.Artist == "" {
			ref.Artist = fileArtist
		}
	}
	return ref
}
