package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProviders()
	c.normalizeGateway()
	c.normalizeWorkers()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.EnvFile) != "" {
		if c.Paths.EnvFile, err = expandPath(c.Paths.EnvFile); err != nil {
			return fmt.Errorf("paths.env_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeProviders() {
	if strings.TrimSpace(c.AcoustID.BaseURL) == "" {
		c.AcoustID.BaseURL = defaultAcoustIDBaseURL
	}
	if c.AcoustID.MinAudioScore <= 0 {
		c.AcoustID.MinAudioScore = defaultMinAudioScore
	}
	if strings.TrimSpace(c.MusicBrainz.BaseURL) == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		c.MusicBrainz.UserAgent = defaultMusicBrainzUA
	}
	if c.MusicBrainz.MinIntervalMillis <= 0 {
		c.MusicBrainz.MinIntervalMillis = defaultMusicBrainzPaceMs
	}
	if strings.TrimSpace(c.Discogs.BaseURL) == "" {
		c.Discogs.BaseURL = defaultDiscogsBaseURL
	}
	if c.Discogs.MinIntervalMillis <= 0 {
		c.Discogs.MinIntervalMillis = defaultDiscogsPaceMs
	}
	if strings.TrimSpace(c.Spotify.BaseURL) == "" {
		c.Spotify.BaseURL = defaultSpotifyBaseURL
	}
	if strings.TrimSpace(c.Spotify.TokenURL) == "" {
		c.Spotify.TokenURL = defaultSpotifyTokenURL
	}
	for _, base := range []*string{&c.AcoustID.BaseURL, &c.MusicBrainz.BaseURL, &c.Discogs.BaseURL, &c.Spotify.BaseURL} {
		*base = strings.TrimRight(*base, "/")
	}
}

func (c *Config) normalizeGateway() {
	if c.Gateway.CacheTTLDays <= 0 {
		c.Gateway.CacheTTLDays = defaultCacheTTLDays
	}
	if c.Gateway.RequestTimeoutSeconds <= 0 {
		c.Gateway.RequestTimeoutSeconds = defaultRequestTimeoutSecs
	}
	if c.Gateway.MaxRetries <= 0 {
		c.Gateway.MaxRetries = defaultMaxRetries
	}
	if c.Gateway.RetryBackoffSeconds <= 0 {
		c.Gateway.RetryBackoffSeconds = defaultRetryBackoffSecs
	}
	if c.Gateway.RateLimitCooldownSeconds <= 0 {
		c.Gateway.RateLimitCooldownSeconds = defaultCooldownSecs
	}
	if c.Gateway.PreventivePauseSeconds <= 0 {
		c.Gateway.PreventivePauseSeconds = defaultPreventivePauseSec
	}
	if c.Gateway.RateLimitHeaderFloor <= 0 {
		c.Gateway.RateLimitHeaderFloor = defaultRateLimitFloor
	}
}

func (c *Config) normalizeWorkers() {
	if c.Workers.Count <= 0 {
		c.Workers.Count = defaultWorkerCount
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
