// Package library walks a raw music directory and mirrors it into a clean
// output tree, running each copied file through the reconciliation pipeline.
// The raw tree is never modified; a failed or rejected file simply keeps its
// original tags in the mirror.
package library

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autotag/internal/fileutil"
	"autotag/internal/logging"
	"autotag/internal/pipeline"
	"autotag/internal/services"
	"autotag/internal/textutil"
)

// Runner processes a batch of audio files. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, paths []string) []pipeline.Outcome
}

// Summary tallies one library run.
type Summary struct {
	Total    int
	Accepted int
	Rejected int
	Failed   int
	Outcomes []pipeline.Outcome
}

// Processor mirrors and tags a library tree.
type Processor struct {
	runner Runner
	dryRun bool
	logger *slog.Logger
}

// NewProcessor builds a library processor. With dryRun set, nothing is copied
// and the pipeline inspects the raw files in place.
func NewProcessor(runner Runner, dryRun bool, logger *slog.Logger) (*Processor, error) {
	if runner == nil {
		return nil, services.Wrap(services.ErrConfiguration, "library", "new", "pipeline runner is required", nil)
	}
	return &Processor{
		runner: runner,
		dryRun: dryRun,
		logger: logging.NewComponentLogger(logger, "library"),
	}, nil
}

// Scan returns every MP3 under root, sorted, full paths.
func Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".mp3") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "scan", "walk "+root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Process scans inputDir, mirrors every MP3 into outputDir preserving the
// relative layout, and runs the pipeline over the copies.
func (p *Processor) Process(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	inputDir, err := filepath.Abs(inputDir)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "library", "process", "resolve input dir", err)
	}
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "library", "process", "resolve output dir", err)
	}
	if _, err := os.Stat(inputDir); err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "library", "process", "input directory does not exist", err)
	}

	sources, err := Scan(inputDir)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Total: len(sources)}
	if len(sources) == 0 {
		p.logger.Warn("no MP3 files found", logging.String("input", inputDir))
		return summary, nil
	}
	p.logger.Info("library scan complete",
		logging.String("input", inputDir),
		logging.String("output", outputDir),
		logging.Int("files", len(sources)),
		logging.Bool("dry_run", p.dryRun))

	targets := make([]string, 0, len(sources))
	for _, src := range sources {
		if p.dryRun {
			targets = append(targets, src)
			continue
		}
		dest, err := p.mirror(inputDir, outputDir, src)
		if err != nil {
			p.logger.Error("copy failed",
				logging.String("file", filepath.Base(src)),
				logging.Error(err))
			summary.Failed++
			continue
		}
		targets = append(targets, dest)
	}

	outcomes := p.runner.Run(ctx, targets)
	summary.Outcomes = outcomes
	for _, out := range outcomes {
		switch {
		case out.Err != nil:
			summary.Failed++
		case out.State == pipeline.StateRejected:
			summary.Rejected++
		case out.State == pipeline.StateFinalized:
			summary.Accepted++
		}
	}
	p.logger.Info("library run complete",
		logging.Int("total", summary.Total),
		logging.Int("accepted", summary.Accepted),
		logging.Int("rejected", summary.Rejected),
		logging.Int("failed", summary.Failed))
	return summary, nil
}

// mirror copies src into outputDir at its path relative to inputDir, with the
// base name passed through filesystem sanitization.
func (p *Processor) mirror(inputDir, outputDir, src string) (string, error) {
	rel, err := filepath.Rel(inputDir, src)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(outputDir, filepath.Dir(rel), textutil.SanitizeFileName(filepath.Base(rel)))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := fileutil.CopyFileVerified(src, dest); err != nil {
		return "", err
	}
	return dest, nil
}
