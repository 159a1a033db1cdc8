package record

import "strings"

// Field names a mergeable slot on UnifiedTrackRecord.
type Field string

const (
	FieldTitle            Field = "title"
	FieldArtist           Field = "artist"
	FieldAlbum            Field = "album"
	FieldAlbumArtist      Field = "album_artist"
	FieldGenre            Field = "genre"
	FieldYear             Field = "year"
	FieldTrackNumber      Field = "track_number"
	FieldDiscNumber       Field = "disc_number"
	FieldPublisher        Field = "publisher"
	FieldCatalogNumber    Field = "catalog_number"
	FieldReleaseDate      Field = "release_date"
	FieldCountry          Field = "country"
	FieldMediaFormat      Field = "media_format"
	FieldReleaseType      Field = "release_type"
	FieldReleaseStatus    Field = "release_status"
	FieldStyles           Field = "styles"
	FieldCopyright        Field = "copyright"
	FieldRemixer          Field = "remixer"
	FieldCreditsMastering Field = "credits_mastering"
	FieldCreditsMixing    Field = "credits_mixing"
	FieldISRC             Field = "isrc"
	FieldCoverURL         Field = "cover_url"
	FieldExplicit         Field = "explicit"
)

// mergePolicy lists, per field, the sources allowed to write it in precedence
// order. A source earlier in the list may replace a value written by a later
// one; equal-ranked rewrites (same source) are allowed; everything else is
// fill-if-empty. Identity corrections that cross this policy go through
// CorrectIdentity, which the pipeline confidence-gates.
var mergePolicy = map[Field][]Source{
	FieldTitle:            {SourceSpotify, SourceMusicBrainz, SourceLocal},
	FieldArtist:           {SourceSpotify, SourceMusicBrainz, SourceLocal},
	FieldAlbum:            {SourceMusicBrainz, SourceSpotify, SourceDiscogs, SourceLocal},
	FieldAlbumArtist:      {SourceMusicBrainz, SourceSpotify, SourceDiscogs},
	FieldGenre:            {SourceMusicBrainz, SourceDiscogs, SourceSpotify, SourceLocal},
	FieldYear:             {SourceMusicBrainz, SourceSpotify, SourceDiscogs, SourceLocal},
	FieldTrackNumber:      {SourceMusicBrainz, SourceSpotify, SourceDiscogs, SourceLocal},
	FieldDiscNumber:       {SourceMusicBrainz, SourceSpotify, SourceDiscogs, SourceLocal},
	FieldPublisher:        {SourceDiscogs, SourceMusicBrainz},
	FieldCatalogNumber:    {SourceDiscogs, SourceMusicBrainz},
	FieldReleaseDate:      {SourceMusicBrainz, SourceDiscogs, SourceSpotify},
	FieldCountry:          {SourceDiscogs, SourceMusicBrainz},
	FieldMediaFormat:      {SourceDiscogs},
	FieldReleaseType:      {SourceMusicBrainz, SourceDiscogs},
	FieldReleaseStatus:    {SourceMusicBrainz},
	FieldStyles:           {SourceDiscogs, SourceMusicBrainz},
	FieldCopyright:        {SourceSpotify},
	FieldRemixer:          {SourceDiscogs},
	FieldCreditsMastering: {SourceDiscogs},
	FieldCreditsMixing:    {SourceDiscogs},
	FieldISRC:             {SourceMusicBrainz, SourceSpotify},
	FieldCoverURL:         {SourceSpotify, SourceDiscogs},
	FieldExplicit:         {SourceSpotify},
}

// Patch carries candidate values from one provider. Zero values are treated
// as absent and never merged.
type Patch struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Year        string
	TrackNumber int
	DiscNumber  int

	Publisher        string
	CatalogNumber    string
	ReleaseDate      string
	Country          string
	MediaFormat      string
	ReleaseType      string
	ReleaseStatus    string
	Styles           []string
	Copyright        string
	Remixer          string
	CreditsMastering string
	CreditsMixing    string

	ISRC     string
	CoverURL string

	Explicit    bool
	ExplicitSet bool
}

// Merge applies patch to rec under the central merge policy. Every write and
// refusal is decided here; callers never poke record fields directly.
func (r *UnifiedTrackRecord) Merge(src Source, patch Patch) {
	r.mergeString(src, FieldTitle, patch.Title, &r.Title)
	r.mergeString(src, FieldArtist, patch.Artist, &r.Artist)
	r.mergeString(src, FieldAlbum, patch.Album, &r.Album)
	r.mergeString(src, FieldAlbumArtist, patch.AlbumArtist, &r.AlbumArtist)
	r.mergeString(src, FieldGenre, patch.Genre, &r.Genre)
	r.mergeString(src, FieldYear, patch.Year, &r.Year)
	r.mergeInt(src, FieldTrackNumber, patch.TrackNumber, &r.TrackNumber)
	r.mergeInt(src, FieldDiscNumber, patch.DiscNumber, &r.DiscNumber)

	r.mergeString(src, FieldPublisher, patch.Publisher, &r.Editorial.Publisher)
	r.mergeString(src, FieldCatalogNumber, patch.CatalogNumber, &r.Editorial.CatalogNumber)
	r.mergeString(src, FieldReleaseDate, patch.ReleaseDate, &r.Editorial.ReleaseDate)
	r.mergeString(src, FieldCountry, patch.Country, &r.Editorial.Country)
	r.mergeString(src, FieldMediaFormat, patch.MediaFormat, &r.Editorial.MediaFormat)
	r.mergeString(src, FieldReleaseType, patch.ReleaseType, &r.Editorial.ReleaseType)
	r.mergeString(src, FieldReleaseStatus, patch.ReleaseStatus, &r.Editorial.ReleaseStatus)
	r.mergeStyles(src, patch.Styles)
	r.mergeString(src, FieldCopyright, patch.Copyright, &r.Editorial.Copyright)
	r.mergeString(src, FieldRemixer, patch.Remixer, &r.Editorial.Remixer)
	r.mergeString(src, FieldCreditsMastering, patch.CreditsMastering, &r.Editorial.CreditsMastering)
	r.mergeString(src, FieldCreditsMixing, patch.CreditsMixing, &r.Editorial.CreditsMixing)

	r.mergeString(src, FieldISRC, patch.ISRC, &r.IDs.ISRC)
	r.mergeString(src, FieldCoverURL, patch.CoverURL, &r.CoverURL)

	if patch.ExplicitSet && r.mayWrite(src, FieldExplicit, false) {
		r.Explicit = patch.Explicit
		r.setProvenance(FieldExplicit, src)
	}
}

// CorrectIdentity replaces title and artist regardless of field precedence.
// Callers gate this on corrected-identity confidence; the record only keeps
// the provenance honest.
func (r *UnifiedTrackRecord) CorrectIdentity(src Source, title, artist string) {
	if title = strings.TrimSpace(title); title != "" {
		r.Title = title
		r.setProvenance(FieldTitle, src)
	}
	if artist = strings.TrimSpace(artist); artist != "" {
		r.Artist = artist
		r.setProvenance(FieldArtist, src)
	}
}

func (r *UnifiedTrackRecord) mergeString(src Source, field Field, value string, target *string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if !r.mayWrite(src, field, *target != "") {
		return
	}
	*target = value
	r.setProvenance(field, src)
}

func (r *UnifiedTrackRecord) mergeInt(src Source, field Field, value int, target *int) {
	if value <= 0 {
		return
	}
	if !r.mayWrite(src, field, *target != 0) {
		return
	}
	*target = value
	r.setProvenance(field, src)
}

func (r *UnifiedTrackRecord) mergeStyles(src Source, styles []string) {
	cleaned := make([]string, 0, len(styles))
	for _, s := range styles {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return
	}
	if !r.mayWrite(src, FieldStyles, len(r.Editorial.Styles) > 0) {
		return
	}
	r.Editorial.Styles = cleaned
	r.setProvenance(FieldStyles, src)
}

func (r *UnifiedTrackRecord) mayWrite(src Source, field Field, occupied bool) bool {
	order, ok := mergePolicy[field]
	if !ok {
		return false
	}
	rank := sourceRank(order, src)
	if rank < 0 {
		return false
	}
	if !occupied {
		return true
	}
	current, ok := r.provenance[field]
	if !ok {
		// Occupied with unknown provenance (direct struct init); any
		// policy-listed source may claim it.
		return true
	}
	currentRank := sourceRank(order, current)
	if currentRank < 0 {
		return true
	}
	return rank <= currentRank
}

func sourceRank(order []Source, src Source) int {
	for i, s := range order {
		if s == src {
			return i
		}
	}
	return -1
}

func (r *UnifiedTrackRecord) setProvenance(field Field, src Source) {
	if r.provenance == nil {
		r.provenance = make(map[Field]Source)
	}
	r.provenance[field] = src
}
