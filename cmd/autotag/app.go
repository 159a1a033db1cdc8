package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"autotag/internal/config"
	"autotag/internal/deps"
	"autotag/internal/gateway"
	"autotag/internal/logging"
	"autotag/internal/match"
	"autotag/internal/pipeline"
	"autotag/internal/providers/acoustid"
	"autotag/internal/providers/discogs"
	"autotag/internal/providers/musicbrainz"
	"autotag/internal/providers/spotify"
)

// discogsRemainingHeader carries the catalog's remaining request quota.
const discogsRemainingHeader = "X-Discogs-Ratelimit-Remaining"

// app bundles the shared infrastructure one tagging run needs: logger,
// response cache, the single-instance lock, and the assembled pipeline.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	cache    *gateway.Cache
	lock     *flock.Flock
	pipeline *pipeline.Pipeline
}

func newApp(cfg *config.Config, opts pipeline.Options) (*app, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Paths:  []string{"stderr", filepath.Join(cfg.Paths.LogDir, "autotag.log")},
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	logger = logger.With(logging.String("run_id", uuid.NewString()))

	for _, status := range deps.CheckBinaries([]deps.Requirement{deps.Fpcalc(opts.FpcalcBinary)}) {
		if !status.Available {
			return nil, fmt.Errorf("%s unavailable: %s", status.Name, status.Detail)
		}
	}

	if err := os.MkdirAll(cfg.Paths.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	lock := flock.New(filepath.Join(cfg.Paths.CacheDir, "autotag.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another autotag run holds %s", lock.Path())
	}

	cache, err := gateway.OpenCache(cfg.Paths.CacheDir, time.Duration(cfg.Gateway.CacheTTLDays)*24*time.Hour)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open response cache: %w", err)
	}

	pipe, err := buildPipeline(cfg, cache, opts, logger)
	if err != nil {
		_ = cache.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, cache: cache, lock: lock, pipeline: pipe}, nil
}

func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.lock != nil {
		_ = a.lock.Unlock()
	}
}

func buildPipeline(cfg *config.Config, cache *gateway.Cache, opts pipeline.Options, logger *slog.Logger) (*pipeline.Pipeline, error) {
	shared := gateway.Config{
		Timeout:      time.Duration(cfg.Gateway.RequestTimeoutSeconds) * time.Second,
		MaxRetries:   cfg.Gateway.MaxRetries,
		RetryBackoff: time.Duration(cfg.Gateway.RetryBackoffSeconds) * time.Second,
		Cooldown:     time.Duration(cfg.Gateway.RateLimitCooldownSeconds) * time.Second,
		Cache:        cache,
		Logger:       logger,
	}

	newGateway := func(name, baseURL string, header http.Header, minInterval time.Duration) (*gateway.Gateway, error) {
		gwCfg := shared
		gwCfg.Name = name
		gwCfg.BaseURL = baseURL
		gwCfg.Header = header
		gwCfg.MinInterval = minInterval
		if name == "discogs" {
			gwCfg.RemainingHeader = discogsRemainingHeader
			gwCfg.RemainingFloor = cfg.Gateway.RateLimitHeaderFloor
			gwCfg.PreventivePause = time.Duration(cfg.Gateway.PreventivePauseSeconds) * time.Second
		}
		return gateway.New(gwCfg)
	}

	acoustidGW, err := newGateway("acoustid", cfg.AcoustID.BaseURL, nil, 0)
	if err != nil {
		return nil, err
	}
	mbGW, err := newGateway("musicbrainz", cfg.MusicBrainz.BaseURL, musicbrainz.Header(cfg.MusicBrainz),
		time.Duration(cfg.MusicBrainz.MinIntervalMillis)*time.Millisecond)
	if err != nil {
		return nil, err
	}
	discogsGW, err := newGateway("discogs", cfg.Discogs.BaseURL, discogs.Header(cfg.Discogs),
		time.Duration(cfg.Discogs.MinIntervalMillis)*time.Millisecond)
	if err != nil {
		return nil, err
	}
	spotifyGW, err := newGateway("spotify", cfg.Spotify.BaseURL, nil, 0)
	if err != nil {
		return nil, err
	}

	acoustidClient, err := acoustid.New(cfg.AcoustID, acoustidGW, logger)
	if err != nil {
		return nil, err
	}
	mbClient, err := musicbrainz.New(mbGW, logger)
	if err != nil {
		return nil, err
	}
	discogsClient, err := discogs.New(discogsGW, logger)
	if err != nil {
		return nil, err
	}
	spotifyClient, err := spotify.New(cfg.Spotify, spotifyGW, logger)
	if err != nil {
		return nil, err
	}

	return pipeline.New(cfg, pipeline.Deps{
		AcoustID:    acoustidClient,
		MusicBrainz: mbClient,
		Spotify:     spotifyClient,
		Catalog:     match.NewMatcher(discogsClient, logger),
	}, opts, logger)
}
