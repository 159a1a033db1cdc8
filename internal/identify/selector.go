package identify

import (
	"log/slog"
	"math"

	"autotag/internal/logging"
	"autotag/internal/providers/acoustid"
	"autotag/internal/textutil"
)

// Weighting of acoustic match against local text evidence. Without a
// reference artist the artist share folds into the audio score.
const (
	weightAudio         = 0.6
	weightTitle         = 0.3
	weightArtist        = 0.1
	weightAudioNoArtist = 0.7

	// A candidate whose title shares nothing with the reference is suspect
	// unless the acoustic match itself is near-perfect.
	mismatchPenalty    = 0.5
	mismatchTitleFloor = 0.10
	mismatchAudioFloor = 0.90
)

// Selector picks the best fingerprint candidate, or none when even the best
// falls below the combined-score floor.
type Selector struct {
	minScore float64
	logger   *slog.Logger
}

func NewSelector(minScore float64, logger *slog.Logger) *Selector {
	return &Selector{
		minScore: minScore,
		logger:   logging.NewComponentLogger(logger, "selector"),
	}
}

// Select scores every candidate against the reference and returns the best
// one with its combined score. ok is false when there are no candidates or
// the best score lands below the floor.
func (s *Selector) Select(candidates []acoustid.Candidate, ref Reference) (best acoustid.Candidate, score float64, ok bool) {
	if len(candidates) == 0 {
		return acoustid.Candidate{}, 0, false
	}

	bestScore := math.Inf(-1)
	for _, c := range candidates {
		cs := s.scoreCandidate(c, ref)
		if cs > bestScore {
			bestScore = cs
			best = c
		}
	}

	bestScore = round6(bestScore)
	if bestScore < s.minScore {
		s.logger.Debug("best fingerprint candidate below floor",
			logging.Float64("score", bestScore),
			logging.String("title", best.Title))
		return acoustid.Candidate{}, bestScore, false
	}
	return best, bestScore, true
}

func (s *Selector) scoreCandidate(c acoustid.Candidate, ref Reference) float64 {
	titleSim := textutil.TitleSimilarity(ref.Title, c.Title)

	penalty := 0.0
	if ref.Title != "" && titleSim < mismatchTitleFloor && c.AudioScore < mismatchAudioFloor {
		penalty = mismatchPenalty
	}

	var total float64
	if ref.Artist != "" {
		artistSim := textutil.BasicSimilarity(ref.Artist, c.Artist)
		total = weightAudio*c.AudioScore + weightTitle*titleSim + weightArtist*artistSim
	} else {
		total = weightAudioNoArtist*c.AudioScore + weightTitle*titleSim
	}
	return total - penalty
}

// round6 keeps floor comparisons stable.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
