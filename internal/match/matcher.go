package match

import (
	"context"
	"log/slog"
	"strings"

	"autotag/internal/identify"
	"autotag/internal/logging"
	"autotag/internal/providers/discogs"
	"autotag/internal/record"
	"autotag/internal/textutil"
)

// Result is the catalog's best answer for one identity, already scored,
// blended with local sanity, and labeled.
type Result struct {
	Candidate discogs.Candidate
	// Detail is the deep fetch of the winning release. Nil when the match
	// was too weak to be worth another request.
	Detail     *discogs.ReleaseDetail
	Score      float64
	TitleSim   float64
	Confidence float64
	Label      record.MatchLabel
}

// Matched reports whether the catalog produced a usable candidate.
func (r *Result) Matched() bool {
	return r != nil && r.Label != record.LabelNoMatch
}

// Matcher finds and scores catalog releases for a partially known identity.
type Matcher struct {
	client *discogs.Client
	logger *slog.Logger
}

func NewMatcher(client *discogs.Client, logger *slog.Logger) *Matcher {
	return &Matcher{
		client: client,
		logger: logging.NewComponentLogger(logger, "matcher"),
	}
}

// Match runs the query variants, scores every returned candidate against the
// identity, and labels the best one. The winning release is fetched in full
// for tracklist and credits unless the label is NO_MATCH. A nil result means
// the identity had nothing to query with.
func (m *Matcher) Match(ctx context.Context, id Identity, sanity identify.Sanity) (*Result, error) {
	queries := BuildQueries(id)
	if len(queries) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{})
	var candidates []discogs.Candidate
	for _, q := range queries {
		hits, err := m.client.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, c := range hits {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return &Result{Label: record.LabelNoMatch}, nil
	}

	best := candidates[0]
	bestScore := -1.0
	for _, c := range candidates {
		s := ScoreCandidate(id, c)
		if s > bestScore {
			bestScore = s
			best = c
		}
	}

	known := strings.TrimSpace(strings.Join([]string{id.Artist, id.Title, id.ReleaseTitle}, " "))
	titleSim := textutil.TokenJaccard(known, best.RawTitle)

	confidence, label := Confidence(bestScore, sanity.Score, titleSim, sanity.Flagged())

	m.logger.Debug("catalog match",
		logging.String("title", best.RawTitle),
		logging.Float64("score", bestScore),
		logging.Float64(logging.FieldConfidence, confidence),
		logging.String("label", string(label)))

	result := &Result{
		Candidate:  best,
		Score:      bestScore,
		TitleSim:   round6(titleSim),
		Confidence: confidence,
		Label:      label,
	}
	if label == record.LabelNoMatch {
		result.Candidate = discogs.Candidate{}
		return result, nil
	}

	detail, found, err := m.client.Release(ctx, best.ID)
	if err != nil {
		m.logger.Warn("release detail fetch failed", logging.Error(err))
	} else if found {
		result.Detail = detail
	}
	return result, nil
}
