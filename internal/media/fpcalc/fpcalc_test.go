package fpcalc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"autotag/internal/media/fpcalc"
	"autotag/internal/services"
)

func stubBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fpcalc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	bin := stubBinary(t, `echo '{"duration": 218.64, "fingerprint": "AQAAZ0kkZUmSJA"}'`)

	res, err := fpcalc.Extract(context.Background(), bin, "song.mp3")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.DurationSecs != 219 {
		t.Errorf("duration = %d, want rounded 219", res.DurationSecs)
	}
	if res.Fingerprint != "AQAAZ0kkZUmSJA" {
		t.Errorf("fingerprint = %q", res.Fingerprint)
	}
}

func TestExtractToolFailure(t *testing.T) {
	bin := stubBinary(t, `echo "ERROR: could not decode" >&2; exit 2`)

	_, err := fpcalc.Extract(context.Background(), bin, "song.mp3")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestExtractEmptyFingerprint(t *testing.T) {
	bin := stubBinary(t, `echo '{"duration": 10}'`)

	if _, err := fpcalc.Extract(context.Background(), bin, "song.mp3"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestExtractEmptyPath(t *testing.T) {
	if _, err := fpcalc.Extract(context.Background(), "fpcalc", " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
