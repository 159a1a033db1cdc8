package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
	EnvFile  string `toml:"env_file"`
}

// AcoustID contains configuration for the acoustic fingerprint service.
type AcoustID struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	// MinAudioScore drops lookup results whose acoustic score falls below it.
	MinAudioScore float64 `toml:"min_audio_score"`
}

// MusicBrainz contains configuration for the canonical music encyclopedia.
type MusicBrainz struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	// MinIntervalMillis spaces consecutive requests (the service asks for 1 rps).
	MinIntervalMillis int `toml:"min_interval_millis"`
}

// Discogs contains configuration for the marketplace release catalog.
type Discogs struct {
	Token             string `toml:"token"`
	BaseURL           string `toml:"base_url"`
	MinIntervalMillis int    `toml:"min_interval_millis"`
}

// Spotify contains configuration for the streaming catalog.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	BaseURL      string `toml:"base_url"`
	TokenURL     string `toml:"token_url"`
}

// Gateway contains the shared provider transport settings: response cache,
// retry policy, and rate-limit cooldowns.
type Gateway struct {
	CacheTTLDays             int `toml:"cache_ttl_days"`
	RequestTimeoutSeconds    int `toml:"request_timeout_seconds"`
	MaxRetries               int `toml:"max_retries"`
	RetryBackoffSeconds      int `toml:"retry_backoff_seconds"`
	RateLimitCooldownSeconds int `toml:"rate_limit_cooldown_seconds"`
	PreventivePauseSeconds   int `toml:"preventive_pause_seconds"`
	RateLimitHeaderFloor     int `toml:"rate_limit_header_floor"`
}

// Matching contains the confidence thresholds the reconciliation pipeline
// runs on. The reference values mirror the behavior the pipeline was tuned
// against; change them only deliberately.
type Matching struct {
	MinCombinedScore         float64 `toml:"min_combined_score"`
	StreamingAcceptFloor     float64 `toml:"streaming_accept_floor"`
	DurationToleranceSeconds float64 `toml:"duration_tolerance_seconds"`
	ArtistOverlapFloor       float64 `toml:"artist_overlap_floor"`
	IdentityCorrectionFloor  float64 `toml:"identity_correction_floor"`
	FinalRejectBelow         float64 `toml:"final_reject_below"`
}

// Output controls how accepted records are written back.
type Output struct {
	DefaultGenre      string `toml:"default_genre"`
	EmbedCover        bool   `toml:"embed_cover"`
	OverwriteExisting bool   `toml:"overwrite_existing"`
}

// Workers controls pipeline concurrency.
type Workers struct {
	Count int `toml:"count"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for autotag.
//
// Configuration sections by subsystem:
//   - Paths: cache, logs, and the .env credential file
//   - AcoustID / MusicBrainz / Discogs / Spotify: provider endpoints and keys
//   - Gateway: shared transport behavior (cache TTL, retries, cooldowns)
//   - Matching: confidence thresholds for the reconciliation pipeline
//   - Output: tag writing behavior
//   - Workers: pipeline concurrency
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	AcoustID    AcoustID    `toml:"acoustid"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Discogs     Discogs     `toml:"discogs"`
	Spotify     Spotify     `toml:"spotify"`
	Gateway     Gateway     `toml:"gateway"`
	Matching    Matching    `toml:"matching"`
	Output      Output      `toml:"output"`
	Workers     Workers     `toml:"workers"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/autotag/config.toml")
}

// Load locates, parses, and validates a configuration file. Credentials left
// blank in the file are filled from the environment (optionally seeded from a
// .env file). The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	cfg.loadCredentialsFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadCredentialsFromEnv fills blank provider credentials from the process
// environment, seeded from the configured .env file when present. Values in
// the config file win over the environment.
func (c *Config) loadCredentialsFromEnv() {
	if c.Paths.EnvFile != "" {
		// godotenv never overrides variables already exported.
		_ = godotenv.Load(c.Paths.EnvFile)
	}
	fill := func(target *string, key string) {
		if *target == "" {
			*target = os.Getenv(key)
		}
	}
	fill(&c.AcoustID.APIKey, "ACOUSTID_API_KEY")
	fill(&c.Discogs.Token, "DISCOGS_TOKEN")
	fill(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	fill(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("autotag.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// clobber an existing file.
func WriteSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}
