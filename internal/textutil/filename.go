package textutil

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Noise commonly found in DJ pool and rip-site filenames.
var filenameGarbage = []string{
	"Unknown Artist -",
	"Unknown Artist",
	"www.mp3",
	"Youtube Rip",
	"y2mate.com",
	"y2mate",
	"www.youtube.com",
	"_320kbps",
	"320kbps",
}

var (
	camelotBPMPrefix = regexp.MustCompile(`^\d{1,2}[A-Z]\s+-\s+\d{2,3}\s+-\s+`)
	camelotPrefix    = regexp.MustCompile(`^\d{1,2}[A-Z]\s+-\s+`)
	trackNumPrefix   = regexp.MustCompile(`^\d{2,3}\s*[-.]\s+`)
)

// CleanFilename strips rip noise from an audio filename so the remainder can
// seed a metadata search: extension, placeholder artists, download-site tags,
// Camelot key/BPM prefixes ("2A - 125 - "), and leading track numbers.
func CleanFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	for _, g := range filenameGarbage {
		name = strings.ReplaceAll(name, g, "")
	}

	name = camelotBPMPrefix.ReplaceAllString(name, "")
	name = camelotPrefix.ReplaceAllString(name, "")
	name = trackNumPrefix.ReplaceAllString(name, "")

	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	name = whitespacePattern.ReplaceAllString(name, " ")
	name = strings.TrimSpace(strings.TrimPrefix(name, "- "))
	return name
}

// SplitArtistTitle splits a cleaned filename on the first " - " separator,
// then on a bare "-" when both sides are non-empty. When no separator exists
// the whole input is returned as the title with an empty artist.
func SplitArtistTitle(cleaned string) (artist, title string) {
	if before, after, found := strings.Cut(cleaned, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	if before, after, found := strings.Cut(cleaned, "-"); found {
		before = strings.TrimSpace(before)
		after = strings.TrimSpace(after)
		if before != "" && after != "" {
			return before, after
		}
	}
	return "", strings.TrimSpace(cleaned)
}
