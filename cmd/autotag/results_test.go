package main

import (
	"bytes"
	"errors"
	"testing"

	"autotag/internal/pipeline"
	"autotag/internal/record"
)

func TestRenderOutcomes(t *testing.T) {
	outcomes := []pipeline.Outcome{
		{
			Path:  "/clean/trance/Armin van Buuren - Communication.mp3",
			State: pipeline.StateFinalized,
			Record: &record.UnifiedTrackRecord{
				Artist:     "Armin van Buuren",
				Title:      "Communication",
				Confidence: 0.95,
				Label:      record.LabelHigh,
			},
		},
		{
			Path:   "/clean/unknown/track01.mp3",
			State:  pipeline.StateRejected,
			Reason: "no provider produced an identity",
		},
		{
			Path:  "/clean/broken.mp3",
			State: pipeline.StatePending,
			Err:   errors.New("fpcalc missing"),
		},
	}

	var buf bytes.Buffer
	out := renderOutcomes(&buf, outcomes)
	requireContains(t, out, "Armin van Buuren")
	requireContains(t, out, "0.95")
	requireContains(t, out, "tagged")
	requireContains(t, out, "rejected: no provider produced an identity")
	requireContains(t, out, "error: fpcalc missing")
}

func TestRenderRecordSkipsEmptyFields(t *testing.T) {
	out := renderRecord(pipeline.Outcome{Record: &record.UnifiedTrackRecord{
		Artist:     "Afro Medusa",
		Title:      "Pasilda",
		Confidence: 0.88,
		Label:      record.LabelHigh,
		IDs:        record.ExternalIDs{Spotify: "sp99"},
	}})
	requireContains(t, out, "Afro Medusa")
	requireContains(t, out, "Pasilda")
	requireContains(t, out, "sp99")
	if bytes.Contains([]byte(out), []byte("Publisher")) {
		t.Errorf("empty fields must be omitted:\n%s", out)
	}
}
