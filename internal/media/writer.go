package media

import (
	"net/http"
	"strconv"
	"strings"

	id3v2 "github.com/bogem/id3v2/v2"

	"autotag/internal/record"
	"autotag/internal/services"
)

// TXXX descriptions for provider identifiers and extended editorial data.
// Keeping the identifiers in the file makes every later lookup free.
const (
	txxxMusicBrainzTrack   = "MusicBrainz Track Id"
	txxxMusicBrainzRelease = "MusicBrainz Release Id"
	txxxMusicBrainzArtist  = "MusicBrainz Artist Id"
	txxxDiscogsRelease     = "Discogs Release Id"
	txxxDiscogsMaster      = "Discogs Master Id"
	txxxSpotify            = "Spotify Track Id"
	txxxAcoustID           = "AcoustID"
	txxxCatalogNumber      = "Catalog Number"
	txxxReleaseType        = "Release Type"
	txxxReleaseStatus      = "Release Status"
	txxxMediaFormat        = "Format"
	txxxCountry            = "Country"
	txxxStyles             = "Styles"
	txxxMasteredBy         = "Mastered By"
	txxxMixedBy            = "Mixed By"
)

// WriteTags rewrites the ID3v2 header of path from the consolidated record.
// Existing frames are dropped first so stale values from previous taggers
// cannot survive next to the new ones. A nil cover leaves any embedded
// artwork alone.
func WriteTags(path string, rec *record.UnifiedTrackRecord, cover []byte) error {
	file, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return services.Wrap(services.ErrValidation, "media", "write tags", "open file", err)
	}
	defer file.Close()

	file.SetDefaultEncoding(id3v2.EncodingUTF8)
	file.DeleteAllFrames()

	setText := func(description, value string) {
		if value == "" {
			return
		}
		file.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: description,
			Value:       value,
		})
	}
	setFrame := func(id, value string) {
		if value == "" {
			return
		}
		file.AddTextFrame(file.CommonID(id), id3v2.EncodingUTF8, value)
	}

	file.SetTitle(rec.Title)
	file.SetArtist(rec.Artist)
	file.SetAlbum(rec.Album)
	file.SetGenre(rec.Genre)
	if rec.Year != "" {
		file.SetYear(rec.Year)
	}
	setFrame("Band/Orchestra/Accompaniment", rec.AlbumArtist)
	if rec.TrackNumber > 0 {
		setFrame("Track number/Position in set", strconv.Itoa(rec.TrackNumber))
	}
	if rec.DiscNumber > 0 {
		setFrame("Part of a set", strconv.Itoa(rec.DiscNumber))
	}

	setFrame("Publisher", rec.Editorial.Publisher)
	setFrame("ISRC", rec.IDs.ISRC)
	setFrame("Interpreted, remixed, or otherwise modified by", rec.Editorial.Remixer)
	setFrame("Copyright message", rec.Editorial.Copyright)

	setText(txxxCatalogNumber, rec.Editorial.CatalogNumber)
	setText(txxxReleaseType, rec.Editorial.ReleaseType)
	setText(txxxReleaseStatus, rec.Editorial.ReleaseStatus)
	setText(txxxMediaFormat, rec.Editorial.MediaFormat)
	setText(txxxCountry, rec.Editorial.Country)
	setText(txxxStyles, strings.Join(rec.Editorial.Styles, "; "))
	setText(txxxMasteredBy, rec.Editorial.CreditsMastering)
	setText(txxxMixedBy, rec.Editorial.CreditsMixing)

	setText(txxxMusicBrainzTrack, rec.IDs.MusicBrainzTrack)
	setText(txxxMusicBrainzRelease, rec.IDs.MusicBrainzRelease)
	setText(txxxMusicBrainzArtist, rec.IDs.MusicBrainzArtist)
	setText(txxxDiscogsRelease, rec.IDs.DiscogsRelease)
	setText(txxxDiscogsMaster, rec.IDs.DiscogsMaster)
	setText(txxxSpotify, rec.IDs.Spotify)
	setText(txxxAcoustID, rec.IDs.AcoustID)

	if rec.Editorial.Comment != "" {
		file.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "Description",
			Text:        rec.Editorial.Comment,
		})
	}

	if len(cover) > 0 {
		file.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    http.DetectContentType(cover),
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}

	if err := file.Save(); err != nil {
		return services.Wrap(services.ErrValidation, "media", "write tags", "save header", err)
	}
	return nil
}
