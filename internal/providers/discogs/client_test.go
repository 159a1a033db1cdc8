package discogs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"autotag/internal/gateway"
	"autotag/internal/providers/discogs"
)

func newClient(t *testing.T, server *httptest.Server) *discogs.Client {
	t.Helper()
	gw, err := gateway.New(gateway.Config{Name: "discogs", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	client, err := discogs.New(gw, nil)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

const searchBody = `{
  "results": [
    {"id": 101, "master_id": 55, "type": "release",
     "title": "Afro Medusa - Pasilda", "year": "2000", "country": "UK",
     "label": ["Azuli Records"], "catno": "AZNY 176",
     "format": ["Vinyl", "12\""], "style": ["House"], "genre": ["Electronic"],
     "cover_image": "https://img.example/101.jpg"},
    {"id": 9, "type": "artist", "title": "Afro Medusa"}
  ]
}`

func TestSearchParsesAndFiltersTypes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "release" || q.Get("artist") != "Afro Medusa" || q.Get("track") != "Pasilda" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := newClient(t, server)
	candidates, err := client.Search(context.Background(), discogs.SearchQuery{
		Artist:     "Afro Medusa",
		TrackTitle: "Pasilda",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected artist result filtered, got %d candidates", len(candidates))
	}
	c := candidates[0]
	if c.Artist != "Afro Medusa" || c.Title != "Pasilda" || c.Label != "Azuli Records" {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if c.CatNo != "AZNY 176" || c.Country != "UK" || c.CoverURL == "" {
		t.Fatalf("unexpected candidate detail: %+v", c)
	}
}

func TestSearchNotFoundYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newClient(t, server)
	candidates, err := client.Search(context.Background(), discogs.SearchQuery{Text: "whatever"})
	if err != nil {
		t.Fatalf("expected clean empty result, got %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}

const releaseBody = `{
  "id": 101, "title": "Pasilda", "year": 2000, "country": "UK",
  "artists": [{"name": "Afro Medusa"}],
  "labels": [{"name": "Azuli Records", "catno": "AZNY 176"}],
  "formats": [{"name": "Vinyl"}],
  "styles": ["House", "Tribal House"],
  "genres": ["Electronic"],
  "tracklist": [
    {"position": "A1", "title": "Pasilda (Knee Deep Club Mix)", "duration": "8:05"},
    {"position": "B1", "title": "Pasilda (Original Mix)", "duration": "7:10"}
  ],
  "extraartists": [
    {"name": "Knee Deep", "role": "Remix"},
    {"name": "J. Engineer", "role": "Mixed By"},
    {"name": "M. Master", "role": "Mastered By"}
  ],
  "images": [
    {"type": "secondary", "uri": "https://img.example/back.jpg"},
    {"type": "primary", "uri": "https://img.example/front.jpg"}
  ]
}`

func TestReleaseDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/101" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(releaseBody))
	}))
	defer server.Close()

	client := newClient(t, server)
	detail, found, err := client.Release(context.Background(), 101)
	if err != nil || !found {
		t.Fatalf("Release: found=%v err=%v", found, err)
	}
	if detail.CatNo != "AZNY 176" || len(detail.Tracklist) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.CoverURL != "https://img.example/front.jpg" {
		t.Fatalf("expected primary image, got %q", detail.CoverURL)
	}
	if got := detail.CreditByRole("master"); got != "M. Master" {
		t.Fatalf("unexpected mastering credit: %q", got)
	}
	if got := detail.CreditByRole("mix"); got != "Knee Deep, J. Engineer" {
		t.Fatalf("unexpected mixing credits: %q", got)
	}
}

func TestReleaseNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newClient(t, server)
	_, found, err := client.Release(context.Background(), 404)
	if err != nil || found {
		t.Fatalf("expected clean miss, found=%v err=%v", found, err)
	}
}
