package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"autotag/internal/config"
	"autotag/internal/gateway"
	"autotag/internal/logging"
	"autotag/internal/services"
)

// tokenExpiryBuffer is subtracted from the advertised token lifetime so a
// request never leaves with a token about to lapse mid-flight.
const tokenExpiryBuffer = 60 * time.Second

const defaultSearchLimit = 5

// Track is one streaming-catalog search hit scored against the searched
// identity.
type Track struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Year        int
	DurationMS  int
	Explicit    bool
	CoverURL    string
	URL         string
	ISRC        string
	TrackNumber int
	DiscNumber  int
	Score       float64
}

// Client talks to the streaming catalog through the shared gateway using the
// client-credentials flow.
type Client struct {
	gw           *gateway.Gateway
	tokenURL     string
	clientID     string
	clientSecret string
	logger       *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New constructs a streaming-catalog client. Both credentials are required.
func New(cfg config.Spotify, gw *gateway.Gateway, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "spotify", "new", "client ID and secret are required", nil)
	}
	if gw == nil {
		return nil, services.Wrap(services.ErrConfiguration, "spotify", "new", "gateway is required", nil)
	}
	return &Client{
		gw:           gw,
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logging.NewComponentLogger(logger, "spotify"),
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	header := http.Header{}
	header.Set("Authorization", "Basic "+auth)

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	res, err := c.gw.PostForm(ctx, c.tokenURL, data, header)
	if err != nil {
		return "", err
	}
	var payload tokenResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return "", services.Wrap(services.ErrMalformed, "spotify", "token", "decode token response", err)
	}
	if payload.AccessToken == "" {
		return "", services.Wrap(services.ErrMalformed, "spotify", "token", "empty access token", nil)
	}

	lifetime := time.Duration(payload.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	c.accessToken = payload.AccessToken
	c.tokenExpiry = time.Now().Add(lifetime - tokenExpiryBuffer)
	c.logger.Debug("access token refreshed", logging.Duration("lifetime", lifetime))
	return c.accessToken, nil
}

// SearchTrack runs a fielded search for a known artist and title. Results
// come back scored against that identity, best first.
func (c *Client) SearchTrack(ctx context.Context, artist, title string, limit int) ([]Track, error) {
	if strings.TrimSpace(title) == "" {
		return nil, services.Wrap(services.ErrValidation, "spotify", "search", "title is empty", nil)
	}
	// Quotes break the fielded query syntax.
	cleanArtist := stripQuotes(artist)
	cleanTitle := stripQuotes(title)
	query := "artist:" + cleanArtist + " track:" + cleanTitle
	return c.search(ctx, query, artist, title, limit)
}

// SearchBroad runs the query verbatim without field filters. Useful when the
// artist is unknown or the filename carries both names in one string; the
// reference identity is only used to score what comes back.
func (c *Client) SearchBroad(ctx context.Context, query, refArtist, refTitle string, limit int) ([]Track, error) {
	if strings.TrimSpace(query) == "" {
		return nil, services.Wrap(services.ErrValidation, "spotify", "search", "query is empty", nil)
	}
	return c.search(ctx, query, refArtist, refTitle, limit)
}

type searchResponse struct {
	Tracks struct {
		Items []trackItem `json:"items"`
	} `json:"tracks"`
}

type trackItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
		Artists     []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	DurationMS  int  `json:"duration_ms"`
	Explicit    bool `json:"explicit"`
	TrackNumber int  `json:"track_number"`
	DiscNumber  int  `json:"disc_number"`
	ExternalIDs struct {
		ISRC string `json:"isrc"`
	} `json:"external_ids"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

func (c *Client) search(ctx context.Context, query, refArtist, refTitle string, limit int) ([]Track, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	res, err := c.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/search",
		Query:  params,
		Header: header,
	})
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}

	var payload searchResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "spotify", "search", "decode response", err)
	}

	tracks := make([]Track, 0, len(payload.Tracks.Items))
	for _, item := range payload.Tracks.Items {
		tracks = append(tracks, newTrack(item, refArtist, refTitle))
	}
	sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].Score > tracks[j].Score })

	c.logger.Debug("catalog search", logging.String("query", query), logging.Int("results", len(tracks)))
	return tracks, nil
}

func newTrack(item trackItem, refArtist, refTitle string) Track {
	names := make([]string, 0, len(item.Artists))
	for _, a := range item.Artists {
		names = append(names, a.Name)
	}
	artist := strings.Join(names, ", ")

	albumArtist := ""
	if len(item.Album.Artists) > 0 {
		albumArtist = item.Album.Artists[0].Name
	}

	year := 0
	if len(item.Album.ReleaseDate) >= 4 {
		year, _ = strconv.Atoi(item.Album.ReleaseDate[:4])
	}

	// Images come largest first.
	coverURL := ""
	if len(item.Album.Images) > 0 {
		coverURL = item.Album.Images[0].URL
	}

	return Track{
		ID:          item.ID,
		Title:       item.Name,
		Artist:      artist,
		Album:       item.Album.Name,
		AlbumArtist: albumArtist,
		Year:        year,
		DurationMS:  item.DurationMS,
		Explicit:    item.Explicit,
		CoverURL:    coverURL,
		URL:         item.ExternalURLs.Spotify,
		ISRC:        item.ExternalIDs.ISRC,
		TrackNumber: item.TrackNumber,
		DiscNumber:  item.DiscNumber,
		Score:       Score(refArtist, refTitle, artist, item.Name),
	}
}

func stripQuotes(s string) string {
	return strings.NewReplacer(`"`, "", "'", "").Replace(s)
}
