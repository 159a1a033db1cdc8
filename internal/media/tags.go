package media

import (
	"errors"
	"os"

	"github.com/dhowden/tag"

	"autotag/internal/services"
)

// Tags are the metadata already embedded in an audio file before the
// pipeline touches it.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Year        int
	Track       int
	Disc        int
	HasCover    bool
}

// Empty reports whether no identifying text was embedded at all.
func (t Tags) Empty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == ""
}

// Complete reports whether every core field is already filled, so the file
// gains nothing from another identification pass.
func (t Tags) Complete() bool {
	return t.Title != "" && t.Artist != "" && t.Album != "" && t.Genre != "" && t.Year > 0
}

// ReadTags reads the embedded metadata of an audio file. A file with no tag
// header is not an error; it returns zero Tags.
func ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, services.Wrap(services.ErrValidation, "media", "read tags", "open file", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Tags{}, nil
		}
		return Tags{}, services.Wrap(services.ErrMalformed, "media", "read tags", "parse tag header", err)
	}

	track, _ := meta.Track()
	disc, _ := meta.Disc()
	return Tags{
		Title:       meta.Title(),
		Artist:      meta.Artist(),
		Album:       meta.Album(),
		AlbumArtist: meta.AlbumArtist(),
		Genre:       meta.Genre(),
		Year:        meta.Year(),
		Track:       track,
		Disc:        disc,
		HasCover:    meta.Picture() != nil,
	}, nil
}
