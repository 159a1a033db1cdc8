package fpcalc

import (
	"context"
	"encoding/json"
	"math"
	"os/exec"
	"strings"

	"autotag/internal/services"
)

// Result is a Chromaprint extraction: the fingerprint string the lookup
// service expects plus the decoded duration.
type Result struct {
	DurationSecs int
	Fingerprint  string
}

// Extract runs the fpcalc binary against path and parses its JSON output.
func Extract(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "fpcalc"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "fpcalc", "extract", "empty path", nil)
	}

	cmd := exec.CommandContext(ctx, binary, "-json", path)
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "fpcalc", "extract", detail, err)
	}

	var payload struct {
		Duration    float64 `json:"duration"`
		Fingerprint string  `json:"fingerprint"`
	}
	if err := json.Unmarshal(output, &payload); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "fpcalc", "extract", "parse output", err)
	}
	if payload.Fingerprint == "" {
		return Result{}, services.Wrap(services.ErrExternalTool, "fpcalc", "extract", "no fingerprint produced", nil)
	}

	return Result{
		DurationSecs: int(math.Round(payload.Duration)),
		Fingerprint:  payload.Fingerprint,
	}, nil
}
