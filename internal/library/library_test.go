package library_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"autotag/internal/library"
	"autotag/internal/pipeline"
)

type fakeRunner struct {
	paths    []string
	outcomes func(paths []string) []pipeline.Outcome
}

func (f *fakeRunner) Run(ctx context.Context, paths []string) []pipeline.Outcome {
	f.paths = paths
	if f.outcomes != nil {
		return f.outcomes(paths)
	}
	out := make([]pipeline.Outcome, len(paths))
	for i, p := range paths {
		out[i] = pipeline.Outcome{Path: p, State: pipeline.StateFinalized}
	}
	return out
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFindsOnlyMP3Sorted(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", "second.mp3"))
	writeFile(t, filepath.Join(root, "a", "first.MP3"))
	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "cover.jpg"))

	files, err := library.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %d, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "first.MP3" || filepath.Base(files[1]) != "second.mp3" {
		t.Errorf("order = %v", files)
	}
}

func TestProcessMirrorsTreeAndRunsPipeline(t *testing.T) {
	raw := t.TempDir()
	clean := t.TempDir()
	writeFile(t, filepath.Join(raw, "trance", "a.mp3"))
	writeFile(t, filepath.Join(raw, "house", "deep", "b.mp3"))

	runner := &fakeRunner{}
	proc, err := library.NewProcessor(runner, false, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	summary, err := proc.Process(context.Background(), raw, clean)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Total != 2 || summary.Accepted != 2 {
		t.Errorf("summary = %+v", summary)
	}

	wantCopies := []string{
		filepath.Join(clean, "house", "deep", "b.mp3"),
		filepath.Join(clean, "trance", "a.mp3"),
	}
	for _, path := range wantCopies {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing copy %s: %v", path, err)
		}
	}
	if len(runner.paths) != 2 {
		t.Fatalf("runner paths = %v", runner.paths)
	}
	for _, p := range runner.paths {
		rel, err := filepath.Rel(clean, p)
		if err != nil || rel == ".." || filepath.IsAbs(rel) {
			t.Errorf("pipeline ran outside the clean tree: %s", p)
		}
	}
}

func TestProcessDryRunLeavesOutputUntouched(t *testing.T) {
	raw := t.TempDir()
	clean := t.TempDir()
	src := filepath.Join(raw, "a.mp3")
	writeFile(t, src)

	runner := &fakeRunner{}
	proc, err := library.NewProcessor(runner, true, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	if _, err := proc.Process(context.Background(), raw, clean); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(runner.paths) != 1 || runner.paths[0] != src {
		t.Errorf("dry run must inspect sources in place, got %v", runner.paths)
	}
	entries, err := os.ReadDir(clean)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output tree touched during dry run: %v", entries)
	}
}

func TestProcessCountsOutcomes(t *testing.T) {
	raw := t.TempDir()
	clean := t.TempDir()
	writeFile(t, filepath.Join(raw, "a.mp3"))
	writeFile(t, filepath.Join(raw, "b.mp3"))
	writeFile(t, filepath.Join(raw, "c.mp3"))

	runner := &fakeRunner{outcomes: func(paths []string) []pipeline.Outcome {
		return []pipeline.Outcome{
			{Path: paths[0], State: pipeline.StateFinalized},
			{Path: paths[1], State: pipeline.StateRejected, Reason: "confidence below reject floor"},
			{Path: paths[2], State: pipeline.StateFingerprinted, Err: errors.New("lookup failed")},
		}
	}}
	proc, err := library.NewProcessor(runner, false, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	summary, err := proc.Process(context.Background(), raw, clean)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Accepted != 1 || summary.Rejected != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestProcessMissingInputDir(t *testing.T) {
	runner := &fakeRunner{}
	proc, err := library.NewProcessor(runner, false, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	if _, err := proc.Process(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing input dir")
	}
}
