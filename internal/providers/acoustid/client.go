package acoustid

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"autotag/internal/config"
	"autotag/internal/gateway"
	"autotag/internal/logging"
	"autotag/internal/services"
)

// Candidate is one fingerprint lookup hit: a recording the fingerprint
// service believes matches the audio, with its acoustic match score.
type Candidate struct {
	AcoustID    string
	RecordingID string
	Title       string
	Artist      string
	AudioScore  float64
	DurationSec int
}

// Client queries the acoustic fingerprint service through the shared gateway.
type Client struct {
	gw       *gateway.Gateway
	apiKey   string
	minScore float64
	logger   *slog.Logger
}

// New constructs a fingerprint client. The API key is required.
func New(cfg config.AcoustID, gw *gateway.Gateway, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "acoustid", "new", "API key is required", nil)
	}
	if gw == nil {
		return nil, services.Wrap(services.ErrConfiguration, "acoustid", "new", "gateway is required", nil)
	}
	return &Client{
		gw:       gw,
		apiKey:   cfg.APIKey,
		minScore: cfg.MinAudioScore,
		logger:   logging.NewComponentLogger(logger, "acoustid"),
	}, nil
}

type lookupResponse struct {
	Status  string `json:"status"`
	Results []struct {
		ID         string  `json:"id"`
		Score      float64 `json:"score"`
		Recordings []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Duration int    `json:"duration"`
			Artists  []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"recordings"`
	} `json:"results"`
}

// Lookup resolves a Chromaprint fingerprint to recording candidates. Results
// below the configured audio-score floor are dropped before anyone scores
// them further. An empty slice is a valid answer.
func (c *Client) Lookup(ctx context.Context, fingerprint string, durationSecs int) ([]Candidate, error) {
	if strings.TrimSpace(fingerprint) == "" {
		return nil, services.Wrap(services.ErrValidation, "acoustid", "lookup", "fingerprint is empty", nil)
	}

	params := url.Values{}
	params.Set("client", c.apiKey)
	params.Set("fingerprint", fingerprint)
	params.Set("duration", strconv.Itoa(durationSecs))
	params.Set("meta", "recordings")
	params.Set("format", "json")

	res, err := c.gw.GetJSON(ctx, "/lookup", params)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}

	var payload lookupResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		return nil, services.Wrap(services.ErrMalformed, "acoustid", "lookup", "decode response", err)
	}
	if payload.Status != "ok" {
		return nil, services.Wrap(services.ErrMalformed, "acoustid", "lookup", "status "+payload.Status, nil)
	}

	var candidates []Candidate
	dropped := 0
	for _, result := range payload.Results {
		if result.Score < c.minScore {
			dropped++
			continue
		}
		for _, rec := range result.Recordings {
			artist := ""
			if len(rec.Artists) > 0 {
				names := make([]string, 0, len(rec.Artists))
				for _, a := range rec.Artists {
					names = append(names, a.Name)
				}
				artist = strings.Join(names, ", ")
			}
			candidates = append(candidates, Candidate{
				AcoustID:    result.ID,
				RecordingID: rec.ID,
				Title:       rec.Title,
				Artist:      artist,
				AudioScore:  result.Score,
				DurationSec: rec.Duration,
			})
		}
	}

	c.logger.Debug("fingerprint lookup",
		logging.Int("candidates", len(candidates)),
		logging.Int("below_floor", dropped))
	return candidates, nil
}
