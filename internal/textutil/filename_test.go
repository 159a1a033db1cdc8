package textutil_test

import (
	"testing"

	"autotag/internal/textutil"
)

func TestCleanFilename(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"camelot and bpm prefix", "2A - 125 - Artist - Track.mp3", "Artist - Track"},
		{"camelot only", "11B - Artist - Track.mp3", "Artist - Track"},
		{"track number dash", "01 - Artist - Track.mp3", "Artist - Track"},
		{"track number dot", "007. Artist - Track.mp3", "Artist - Track"},
		{"rip site noise", "Artist - Track y2mate.com.mp3", "Artist - Track"},
		{"placeholder artist", "Unknown Artist - Track.mp3", "Track"},
		{"underscores", "Artist_-_Track_320kbps.mp3", "Artist - Track"},
		{"full path", "/music/raw/03 - Artist - Track.mp3", "Artist - Track"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.CleanFilename(tc.input); got != tc.want {
				t.Fatalf("CleanFilename(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSplitArtistTitle(t *testing.T) {
	artist, title := textutil.SplitArtistTitle("Daft Punk - One More Time")
	if artist != "Daft Punk" || title != "One More Time" {
		t.Fatalf("unexpected split: %q %q", artist, title)
	}

	artist, title = textutil.SplitArtistTitle("One More Time")
	if artist != "" || title != "One More Time" {
		t.Fatalf("expected no artist, got %q %q", artist, title)
	}

	artist, title = textutil.SplitArtistTitle("Armin-Communication")
	if artist != "Armin" || title != "Communication" {
		t.Fatalf("expected bare hyphen split, got %q %q", artist, title)
	}

	artist, title = textutil.SplitArtistTitle("A - B - C")
	if artist != "A" || title != "B - C" {
		t.Fatalf("expected first separator split, got %q %q", artist, title)
	}
}
