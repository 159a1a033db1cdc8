package match

import (
	"strconv"

	"autotag/internal/providers/discogs"
)

// Identity is what is already believed about a track when the catalog is
// queried.
type Identity struct {
	Artist       string
	Title        string
	ReleaseTitle string
	Country      string
	Year         int
}

// placeholderAlbum is written by upstream providers when no release is known;
// searching for it only finds other people's placeholders.
const placeholderAlbum = "Unknown Album"

const searchPageSize = 20

// BuildQueries derives up to three search variants from the populated
// identity fields: artist+track, artist+release, and track-only. Variants
// missing a required field are skipped.
func BuildQueries(id Identity) []discogs.SearchQuery {
	year := ""
	if id.Year > 0 {
		year = strconv.Itoa(id.Year)
	}

	var queries []discogs.SearchQuery
	if id.Artist != "" && id.Title != "" {
		queries = append(queries, discogs.SearchQuery{
			Artist:     id.Artist,
			TrackTitle: id.Title,
			Year:       year,
			PerPage:    searchPageSize,
		})
	}
	if id.Artist != "" && id.ReleaseTitle != "" && id.ReleaseTitle != placeholderAlbum {
		queries = append(queries, discogs.SearchQuery{
			Artist:       id.Artist,
			ReleaseTitle: id.ReleaseTitle,
			Year:         year,
			PerPage:      searchPageSize,
		})
	}
	if id.Title != "" {
		queries = append(queries, discogs.SearchQuery{
			TrackTitle: id.Title,
			Year:       year,
			PerPage:    searchPageSize,
		})
	}
	return queries
}
