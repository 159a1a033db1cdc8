package musicbrainz

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autotag/internal/config"
	"autotag/internal/gateway"
	"autotag/internal/logging"
	"autotag/internal/services"
)

// Artist is one credited artist on a recording.
type Artist struct {
	ID       string
	Name     string
	SortName string
}

// Release is one packaging of a recording. Selection between releases is the
// release heuristic's job; the client only parses.
type Release struct {
	ID               string
	Title            string
	Date             string
	Country          string
	Status           string
	ReleaseGroupID   string
	ReleaseGroupType string
	MediaFormats     []string
	TrackNumber      int
	DiscNumber       int
}

// Recording is the root aggregate for one fingerprint-confirmed identity.
type Recording struct {
	ID       string
	Title    string
	LengthMS int
	Artists  []Artist
	Releases []Release
	Tags     []string
	ISRCs    []string
}

// ArtistNames joins the credited artist names.
func (r *Recording) ArtistNames() string {
	names := make([]string, 0, len(r.Artists))
	for _, a := range r.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// Client fetches recordings from the music encyclopedia through the shared
// gateway. The service asks callers to keep to one request per second; the
// gateway's pacing enforces it.
type Client struct {
	gw     *gateway.Gateway
	logger *slog.Logger
}

// New constructs an encyclopedia client.
func New(gw *gateway.Gateway, logger *slog.Logger) (*Client, error) {
	if gw == nil {
		return nil, services.Wrap(services.ErrConfiguration, "musicbrainz", "new", "gateway is required", nil)
	}
	return &Client{gw: gw, logger: logging.NewComponentLogger(logger, "musicbrainz")}, nil
}

// Header returns the static headers the encyclopedia requires.
func Header(cfg config.MusicBrainz) http.Header {
	h := http.Header{}
	h.Set("User-Agent", cfg.UserAgent)
	h.Set("Accept", "application/json")
	return h
}

type recordingResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Length       int    `json:"length"`
	ArtistCredit []struct {
		Artist struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			SortName string `json:"sort-name"`
		} `json:"artist"`
	} `json:"artist-credit"`
	Releases []struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		Date         string `json:"date"`
		Country      string `json:"country"`
		Status       string `json:"status"`
		ReleaseGroup struct {
			ID          string `json:"id"`
			PrimaryType string `json:"primary-type"`
		} `json:"release-group"`
		Media []struct {
			Format   string `json:"format"`
			Position int    `json:"position"`
			Track    []struct {
				Position int `json:"position"`
			} `json:"track"`
		} `json:"media"`
	} `json:"releases"`
	Tags   []tagEntry `json:"tags"`
	Genres []tagEntry `json:"genres"`
	ISRCs  []string   `json:"isrcs"`
}

type tagEntry struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

// Recording fetches one recording with artists, releases, tags, and ISRCs.
// found=false means the encyclopedia has no such recording.
func (c *Client) Recording(ctx context.Context, id string) (*Recording, bool, error) {
	if strings.TrimSpace(id) == "" {
		return nil, false, services.Wrap(services.ErrValidation, "musicbrainz", "recording", "recording id is empty", nil)
	}

	params := url.Values{}
	params.Set("inc", "artists+releases+release-groups+tags+genres+isrcs+media")
	params.Set("fmt", "json")

	res, err := c.gw.GetJSON(ctx, "/recording/"+url.PathEscape(id), params)
	if err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}

	var payload recordingResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return nil, false, services.Wrap(services.ErrMalformed, "musicbrainz", "recording", "decode response", err)
	}

	rec := &Recording{
		ID:       payload.ID,
		Title:    payload.Title,
		LengthMS: payload.Length,
		Tags:     mergeTags(payload.Tags, payload.Genres),
		ISRCs:    payload.ISRCs,
	}
	for _, credit := range payload.ArtistCredit {
		if credit.Artist.ID == "" && credit.Artist.Name == "" {
			continue
		}
		rec.Artists = append(rec.Artists, Artist{
			ID:       credit.Artist.ID,
			Name:     credit.Artist.Name,
			SortName: credit.Artist.SortName,
		})
	}
	for _, rel := range payload.Releases {
		release := Release{
			ID:               rel.ID,
			Title:            rel.Title,
			Date:             rel.Date,
			Country:          rel.Country,
			Status:           rel.Status,
			ReleaseGroupID:   rel.ReleaseGroup.ID,
			ReleaseGroupType: rel.ReleaseGroup.PrimaryType,
		}
		for _, medium := range rel.Media {
			if medium.Format != "" {
				release.MediaFormats = append(release.MediaFormats, medium.Format)
			}
			if release.TrackNumber == 0 && len(medium.Track) > 0 {
				release.TrackNumber = medium.Track[0].Position
				release.DiscNumber = medium.Position
			}
		}
		rec.Releases = append(rec.Releases, release)
	}

	c.logger.Debug("recording fetched",
		logging.String("recording_id", rec.ID),
		logging.Int("releases", len(rec.Releases)))
	return rec, true, nil
}

// mergeTags combines the tag and genre lists, orders them by vote count
// descending, deduplicates, and title-cases the survivors.
func mergeTags(tags, genres []tagEntry) []string {
	all := make([]tagEntry, 0, len(tags)+len(genres))
	all = append(all, tags...)
	all = append(all, genres...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })

	titleCaser := cases.Title(language.English)
	seen := make(map[string]struct{}, len(all))
	var out []string
	for _, t := range all {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, titleCaser.String(name))
	}
	return out
}
