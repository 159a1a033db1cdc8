package record

import "strings"

// Source identifies which provider contributed a field value.
type Source string

const (
	SourceLocal       Source = "local"
	SourceMusicBrainz Source = "musicbrainz"
	SourceDiscogs     Source = "discogs"
	SourceSpotify     Source = "spotify"
)

// MatchLabel buckets a confidence score for reporting and guardrails.
type MatchLabel string

const (
	LabelNoMatch      MatchLabel = "NO_MATCH"
	LabelManualReview MatchLabel = "MANUAL_REVIEW"
	LabelMedium       MatchLabel = "MEDIUM"
	LabelHigh         MatchLabel = "HIGH"
)

// TrackIdentity is the minimal who-and-what the pipeline reasons about while
// providers are still being consulted.
type TrackIdentity struct {
	Title      string
	Artist     string
	Album      string
	Confidence float64
	Source     Source
}

// Known reports whether the identity carries both a title and an artist.
func (id TrackIdentity) Known() bool {
	return strings.TrimSpace(id.Title) != "" && strings.TrimSpace(id.Artist) != ""
}

// ExternalIDs collects provider-specific identifiers for the matched track.
type ExternalIDs struct {
	MusicBrainzTrack   string
	MusicBrainzRelease string
	MusicBrainzArtist  string
	DiscogsRelease     string
	DiscogsMaster      string
	Spotify            string
	AcoustID           string
	ISRC               string
}

// Editorial carries release-level metadata recovered from the catalogs.
type Editorial struct {
	Publisher        string
	CatalogNumber    string
	ReleaseDate      string
	Country          string
	MediaFormat      string
	ReleaseType      string
	ReleaseStatus    string
	Styles           []string
	Copyright        string
	Comment          string
	Remixer          string
	CreditsMastering string
	CreditsMixing    string
}

// UnifiedTrackRecord is the consolidated answer for one audio file.
type UnifiedTrackRecord struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	TrackNumber int
	DiscNumber  int
	Year        string

	IDs       ExternalIDs
	Editorial Editorial

	Explicit     bool
	DurationSecs float64
	CoverURL     string

	Confidence float64
	Label      MatchLabel

	provenance map[Field]Source
}

// ProvenanceOf returns the source that last wrote field, if any.
func (r *UnifiedTrackRecord) ProvenanceOf(field Field) (Source, bool) {
	src, ok := r.provenance[field]
	return src, ok
}
