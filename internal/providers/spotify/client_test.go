package spotify_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"autotag/internal/config"
	"autotag/internal/gateway"
	"autotag/internal/providers/spotify"
	"autotag/internal/services"
)

func newClient(t *testing.T, server *httptest.Server) *spotify.Client {
	t.Helper()
	gw, err := gateway.New(gateway.Config{Name: "spotify", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Spotify{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		TokenURL:     server.URL + "/api/token",
	}
	client, err := spotify.New(cfg, gw, nil)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

const searchBody = `{
  "tracks": {
    "items": [
      {
        "id": "bad-1", "name": "Wrong Song", "duration_ms": 100000,
        "artists": [{"name": "Nobody"}],
        "album": {"name": "Filler", "release_date": "1995"}
      },
      {
        "id": "trk-1", "name": "Pasilda", "duration_ms": 218000,
        "explicit": false, "track_number": 3, "disc_number": 1,
        "artists": [{"name": "Afro Medusa"}],
        "album": {
          "name": "Pasilda",
          "release_date": "2000-07-17",
          "artists": [{"name": "Afro Medusa"}],
          "images": [{"url": "https://img.example/large.jpg"}, {"url": "https://img.example/small.jpg"}]
        },
        "external_ids": {"isrc": "GBARL0000123"},
        "external_urls": {"spotify": "https://open.spotify.com/track/trk-1"}
      }
    ]
  }
}`

func spotifyHandler(t *testing.T, tokenCalls *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			tokenCalls.Add(1)
			if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
				t.Errorf("unexpected basic auth: %q %q", user, pass)
			}
			if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
				t.Errorf("unexpected token form: %v", r.PostForm)
			}
			w.Write([]byte(`{"access_token":"test-token","expires_in":3600}`))
		case "/search":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("unexpected authorization header: %q", got)
			}
			if r.URL.Query().Get("type") != "track" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(searchBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestSearchTrackScoresAndSorts(t *testing.T) {
	var tokenCalls atomic.Int64
	server := httptest.NewServer(spotifyHandler(t, &tokenCalls))
	defer server.Close()

	client := newClient(t, server)
	tracks, err := client.SearchTrack(context.Background(), "Afro Medusa", "Pasilda", 5)
	if err != nil {
		t.Fatalf("SearchTrack: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}

	best := tracks[0]
	if best.ID != "trk-1" {
		t.Fatalf("expected exact match first, got %+v", best)
	}
	if best.Score != 1.0 {
		t.Errorf("exact match score = %v, want 1.0", best.Score)
	}
	if best.Year != 2000 || best.DurationMS != 218000 || best.TrackNumber != 3 {
		t.Errorf("unexpected track fields: %+v", best)
	}
	if best.ISRC != "GBARL0000123" {
		t.Errorf("ISRC = %q", best.ISRC)
	}
	if best.CoverURL != "https://img.example/large.jpg" {
		t.Errorf("expected largest cover image, got %q", best.CoverURL)
	}
	if tracks[1].Score >= best.Score {
		t.Errorf("results not sorted by score: %v then %v", best.Score, tracks[1].Score)
	}
}

func TestTokenIsReusedAcrossSearches(t *testing.T) {
	var tokenCalls atomic.Int64
	server := httptest.NewServer(spotifyHandler(t, &tokenCalls))
	defer server.Close()

	client := newClient(t, server)
	for i := 0; i < 2; i++ {
		if _, err := client.SearchTrack(context.Background(), "Afro Medusa", "Pasilda", 5); err != nil {
			t.Fatal(err)
		}
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Fatalf("expected a single token handshake, got %d", got)
	}
}

func TestSearchTrackRequiresTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	client := newClient(t, server)
	if _, err := client.SearchTrack(context.Background(), "Artist", " ", 5); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	gw, err := gateway.New(gateway.Config{Name: "spotify", BaseURL: "https://api.example"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := spotify.New(config.Spotify{ClientID: "id"}, gw, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name                      string
		searchArtist, searchTitle string
		resultArtist, resultTitle string
		want                      float64
	}{
		{"exact", "Afro Medusa", "Pasilda", "Afro Medusa", "Pasilda", 1.0},
		{"swapped fields", "Pasilda", "Afro Medusa", "Afro Medusa", "Pasilda", 1.0},
		{"punctuation folded", "We.Amps", "Song", "We Amps", "Song", 1.0},
		{"substring boosted artist", "We Amps", "Song", "We Amps feat. Somebody", "Song", 0.96},
		{"free search exact", "", "Afro Medusa Pasilda", "Afro Medusa", "Pasilda", 1.0},
		{"free search superset", "", "Afro Medusa Pasilda Original", "Afro Medusa", "Pasilda", 0.8},
		{"free search weak overlap", "", "Pasilda Club Mix", "Afro Medusa", "Pasilda", 0.2},
		{"no overlap", "Someone", "Else", "Afro Medusa", "Pasilda", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := spotify.Score(tt.searchArtist, tt.searchTitle, tt.resultArtist, tt.resultTitle)
			if got != tt.want {
				t.Fatalf("Score(%q,%q,%q,%q) = %v, want %v",
					tt.searchArtist, tt.searchTitle, tt.resultArtist, tt.resultTitle, got, tt.want)
			}
		})
	}
}
