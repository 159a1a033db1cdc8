package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autotag/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[acoustid]
api_key = "test-key"
`)
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected resolved existing path, got %q %v", resolved, exists)
	}
	if cfg.Gateway.RateLimitCooldownSeconds != 65 {
		t.Fatalf("unexpected cooldown default: %d", cfg.Gateway.RateLimitCooldownSeconds)
	}
	if cfg.Gateway.CacheTTLDays != 7 {
		t.Fatalf("unexpected cache ttl default: %d", cfg.Gateway.CacheTTLDays)
	}
	if cfg.Workers.Count != 4 {
		t.Fatalf("unexpected worker default: %d", cfg.Workers.Count)
	}
	if cfg.Matching.MinCombinedScore != 0.40 {
		t.Fatalf("unexpected selector floor default: %v", cfg.Matching.MinCombinedScore)
	}
	if cfg.Output.DefaultGenre != "Electronic" {
		t.Fatalf("unexpected genre default: %q", cfg.Output.DefaultGenre)
	}
}

func TestLoadRequiresAcoustIDKey(t *testing.T) {
	t.Setenv("ACOUSTID_API_KEY", "")
	path := writeConfig(t, `
[paths]
env_file = ""
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "acoustid.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestLoadFillsCredentialsFromEnv(t *testing.T) {
	t.Setenv("ACOUSTID_API_KEY", "env-key")
	t.Setenv("DISCOGS_TOKEN", "env-token")
	path := writeConfig(t, `
[paths]
env_file = ""
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AcoustID.APIKey != "env-key" || cfg.Discogs.Token != "env-token" {
		t.Fatalf("expected env credentials, got %+v", cfg.AcoustID)
	}
}

func TestLoadEnvFileSeedsCredentials(t *testing.T) {
	t.Setenv("ACOUSTID_API_KEY", "")
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("ACOUSTID_API_KEY=dotenv-key\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, `
[paths]
env_file = "`+envPath+`"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AcoustID.APIKey != "dotenv-key" {
		t.Fatalf("expected dotenv credential, got %q", cfg.AcoustID.APIKey)
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	path := writeConfig(t, `
[acoustid]
api_key = "k"

[matching]
streaming_accept_floor = 1.5
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "streaming_accept_floor") {
		t.Fatalf("expected threshold error, got %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
[acoustid]
api_key = "k"

[logging]
format = "xml"
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestWriteSampleRefusesExisting(t *testing.T) {
	path := writeConfig(t, "# existing")
	if _, err := config.WriteSample(path); err == nil {
		t.Fatal("expected error for existing file")
	}
}
