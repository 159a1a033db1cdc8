package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProviders() error {
	if c.AcoustID.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/autotag/config.toml"
		}
		return fmt.Errorf("acoustid.api_key is required. Set ACOUSTID_API_KEY env var or edit %s (create with 'autotag config init')", defaultPath)
	}
	if c.AcoustID.MinAudioScore < 0 || c.AcoustID.MinAudioScore > 1 {
		return errors.New("acoustid.min_audio_score must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateMatching() error {
	unit := []struct {
		name  string
		value float64
	}{
		{"matching.min_combined_score", c.Matching.MinCombinedScore},
		{"matching.streaming_accept_floor", c.Matching.StreamingAcceptFloor},
		{"matching.artist_overlap_floor", c.Matching.ArtistOverlapFloor},
		{"matching.identity_correction_floor", c.Matching.IdentityCorrectionFloor},
		{"matching.final_reject_below", c.Matching.FinalRejectBelow},
	}
	for _, field := range unit {
		if field.value < 0 || field.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", field.name)
		}
	}
	if c.Matching.DurationToleranceSeconds < 0 {
		return errors.New("matching.duration_tolerance_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
