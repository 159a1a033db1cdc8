package discogs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"autotag/internal/config"
	"autotag/internal/gateway"
	"autotag/internal/logging"
	"autotag/internal/services"
)

// Candidate is one catalog search result. Score starts at zero; the matcher
// owns it.
type Candidate struct {
	ID       int64
	MasterID int64
	Type     string
	// RawTitle keeps the catalog's "Artist - Title" form.
	RawTitle string
	Title    string
	Artist   string
	Year     string
	Country  string
	Label    string
	CatNo    string
	Formats  []string
	Styles   []string
	Genres   []string
	CoverURL string
	Score    float64
}

// TrackPosition is one tracklist entry on a release detail.
type TrackPosition struct {
	Position string
	Title    string
	Duration string
}

// Credit is one extra-artist credit on a release detail.
type Credit struct {
	Name string
	Role string
}

// ReleaseDetail is the deep fetch of one catalog release.
type ReleaseDetail struct {
	ID        int64
	Title     string
	Artists   []string
	Year      int
	Country   string
	Labels    []string
	CatNo     string
	Formats   []string
	Styles    []string
	Genres    []string
	Tracklist []TrackPosition
	Credits   []Credit
	CoverURL  string
}

// CreditByRole returns the joined names credited with a role containing
// needle (case-insensitive), e.g. "master" or "mix".
func (d *ReleaseDetail) CreditByRole(needle string) string {
	needle = strings.ToLower(needle)
	var names []string
	for _, credit := range d.Credits {
		if strings.Contains(strings.ToLower(credit.Role), needle) {
			names = append(names, credit.Name)
		}
	}
	return strings.Join(names, ", ")
}

// SearchQuery carries the optional fields of a catalog search. Empty fields
// are omitted from the request.
type SearchQuery struct {
	Text         string
	Artist       string
	ReleaseTitle string
	TrackTitle   string
	Year         string
	PerPage      int
}

// Client queries the release catalog through the shared gateway. The catalog
// meters requests aggressively, so its gateway slot carries the cooldown and
// preventive-pause settings.
type Client struct {
	gw     *gateway.Gateway
	logger *slog.Logger
}

// New constructs a catalog client.
func New(gw *gateway.Gateway, logger *slog.Logger) (*Client, error) {
	if gw == nil {
		return nil, services.Wrap(services.ErrConfiguration, "discogs", "new", "gateway is required", nil)
	}
	return &Client{gw: gw, logger: logging.NewComponentLogger(logger, "discogs")}, nil
}

// Header returns the static headers catalog requests need. A missing token
// is allowed; the catalog then serves heavily throttled anonymous traffic.
func Header(cfg config.Discogs) http.Header {
	h := http.Header{}
	h.Set("User-Agent", "autotag/1.0")
	if cfg.Token != "" {
		h.Set("Authorization", "Discogs token="+cfg.Token)
	}
	return h
}

type searchResponse struct {
	Results []struct {
		ID         int64    `json:"id"`
		MasterID   int64    `json:"master_id"`
		Type       string   `json:"type"`
		Title      string   `json:"title"`
		Year       string   `json:"year"`
		Country    string   `json:"country"`
		Label      []string `json:"label"`
		CatNo      string   `json:"catno"`
		Format     []string `json:"format"`
		Style      []string `json:"style"`
		Genre      []string `json:"genre"`
		CoverImage string   `json:"cover_image"`
	} `json:"results"`
}

// Search runs one catalog search. Results other than releases and masters
// are dropped; the artist is recovered from the raw "Artist - Title" form.
func (c *Client) Search(ctx context.Context, query SearchQuery) ([]Candidate, error) {
	params := url.Values{}
	params.Set("type", "release")
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	params.Set("per_page", strconv.Itoa(perPage))
	if query.Text != "" {
		params.Set("q", query.Text)
	}
	if query.Artist != "" {
		params.Set("artist", query.Artist)
	}
	if query.ReleaseTitle != "" {
		params.Set("release_title", query.ReleaseTitle)
	}
	if query.TrackTitle != "" {
		params.Set("track", query.TrackTitle)
	}
	if query.Year != "" {
		params.Set("year", query.Year)
	}

	res, err := c.gw.GetJSON(ctx, "/database/search", params)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}

	var payload searchResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "discogs", "search", "decode response", err)
	}

	var candidates []Candidate
	for _, result := range payload.Results {
		if result.Type != "release" && result.Type != "master" {
			continue
		}
		artist, title := splitRawTitle(result.Title)
		cand := Candidate{
			ID:       result.ID,
			MasterID: result.MasterID,
			Type:     result.Type,
			RawTitle: result.Title,
			Title:    title,
			Artist:   artist,
			Year:     result.Year,
			Country:  result.Country,
			CatNo:    result.CatNo,
			Formats:  result.Format,
			Styles:   result.Style,
			Genres:   result.Genre,
			CoverURL: result.CoverImage,
		}
		if len(result.Label) > 0 {
			cand.Label = result.Label[0]
		}
		candidates = append(candidates, cand)
	}

	c.logger.Debug("catalog search", logging.Int("candidates", len(candidates)))
	return candidates, nil
}

type releaseResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Country string `json:"country"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Labels []struct {
		Name  string `json:"name"`
		CatNo string `json:"catno"`
	} `json:"labels"`
	Formats []struct {
		Name string `json:"name"`
	} `json:"formats"`
	Styles    []string `json:"styles"`
	Genres    []string `json:"genres"`
	Tracklist []struct {
		Position string `json:"position"`
		Title    string `json:"title"`
		Duration string `json:"duration"`
	} `json:"tracklist"`
	ExtraArtists []struct {
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"extraartists"`
	Images []struct {
		Type string `json:"type"`
		URI  string `json:"uri"`
	} `json:"images"`
}

// Release deep-fetches one catalog release for styles, tracklist durations,
// and extended credits. found=false means the catalog has no such release.
func (c *Client) Release(ctx context.Context, id int64) (*ReleaseDetail, bool, error) {
	if id <= 0 {
		return nil, false, services.Wrap(services.ErrValidation, "discogs", "release", "release id must be positive", nil)
	}

	res, err := c.gw.GetJSON(ctx, "/releases/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}

	var payload releaseResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return nil, false, services.Wrap(services.ErrMalformed, "discogs", "release", "decode response", err)
	}

	detail := &ReleaseDetail{
		ID:      payload.ID,
		Title:   payload.Title,
		Year:    payload.Year,
		Country: payload.Country,
		Styles:  payload.Styles,
		Genres:  payload.Genres,
	}
	for _, artist := range payload.Artists {
		detail.Artists = append(detail.Artists, artist.Name)
	}
	for _, label := range payload.Labels {
		detail.Labels = append(detail.Labels, label.Name)
		if detail.CatNo == "" {
			detail.CatNo = label.CatNo
		}
	}
	for _, format := range payload.Formats {
		detail.Formats = append(detail.Formats, format.Name)
	}
	for _, track := range payload.Tracklist {
		detail.Tracklist = append(detail.Tracklist, TrackPosition(track))
	}
	for _, extra := range payload.ExtraArtists {
		detail.Credits = append(detail.Credits, Credit(extra))
	}
	for _, image := range payload.Images {
		if image.Type == "primary" {
			detail.CoverURL = image.URI
			break
		}
	}
	if detail.CoverURL == "" && len(payload.Images) > 0 {
		detail.CoverURL = payload.Images[0].URI
	}

	return detail, true, nil
}

// splitRawTitle recovers artist and track title from the catalog's
// "Artist - Title" result form.
func splitRawTitle(raw string) (artist, title string) {
	if before, after, found := strings.Cut(raw, " - "); found {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", strings.TrimSpace(raw)
}
