package identify_test

import (
	"testing"

	"autotag/internal/identify"
)

func TestAnalyzeSanityAgreement(t *testing.T) {
	s := identify.AnalyzeSanity("Afro Medusa - Pasilda.mp3", "", "", "Afro Medusa", "Pasilda")
	if s.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", s.Score)
	}
	if s.Flagged() {
		t.Fatalf("clean file flagged: %+v", s)
	}
}

func TestAnalyzeSanityDisagreement(t *testing.T) {
	s := identify.AnalyzeSanity("Foo Bar - Baz.mp3", "", "", "Afro Medusa", "Pasilda")
	if s.Score != 0 {
		t.Fatalf("score = %v, want 0", s.Score)
	}
}

func TestAnalyzeSanityUsesTagsWhenFilenameIsNoise(t *testing.T) {
	s := identify.AnalyzeSanity("track0001.mp3", "Pasilda", "Afro Medusa", "Afro Medusa", "Pasilda")
	if s.Score != 1.0 {
		t.Fatalf("score = %v, want 1.0", s.Score)
	}
}

func TestAnalyzeSanityFlags(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		tagTitle string
		rip      bool
		mashup   bool
	}{
		{"rip site suffix", "Artist - Track y2mate.mp3", "", true, false},
		{"webrip tag", "Artist - Track.mp3", "Track [WEBRIP]", true, false},
		{"mashup marker", "Artist vs. Other - Track.mp3", "", false, true},
		{"bootleg in title", "Artist - Track.mp3", "Track (Bootleg Mix)", false, true},
		{"clean", "Artist - Track.mp3", "Track", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := identify.AnalyzeSanity(tt.filename, tt.tagTitle, "", "Artist", "Track")
			if s.RipFlag != tt.rip || s.Mashup != tt.mashup {
				t.Fatalf("flags rip=%v mashup=%v, want rip=%v mashup=%v",
					s.RipFlag, s.Mashup, tt.rip, tt.mashup)
			}
		})
	}
}
