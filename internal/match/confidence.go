package match

import (
	"math"

	"autotag/internal/record"
)

// Confidence caps and label thresholds. A weak local-sanity score caps the
// final confidence no matter how strong the catalog match looked.
const (
	sanityHardCapFloor = 0.30
	sanityHardCap      = 0.49
	sanitySoftCapFloor = 0.60
	sanitySoftCap      = 0.79
	flaggedCap         = 0.80

	noMatchBelow      = 0.45
	manualReviewBelow = 0.65
	mediumBelow       = 0.85
)

// Confidence blends the best candidate's score with local sanity and the
// cross-provider title similarity, then buckets the result into a label.
func Confidence(base, sanity, titleSim float64, flagged bool) (float64, record.MatchLabel) {
	base = clamp01(base)
	sanity = clamp01(sanity)
	titleSim = clamp01(titleSim)

	score := 0.70*base + 0.20*sanity + 0.10*titleSim

	if sanity < sanityHardCapFloor {
		score = math.Min(score, sanityHardCap)
	} else if sanity < sanitySoftCapFloor {
		score = math.Min(score, sanitySoftCap)
	}
	if flagged {
		score = math.Min(score, flaggedCap)
	}
	score = round6(clamp01(score))

	// Sanity this low means the local evidence contradicts the match
	// outright; the capped score still reads as reviewable, so the label
	// is forced down too.
	if sanity < sanityHardCapFloor {
		return score, record.LabelNoMatch
	}

	return score, LabelFor(score, sanity, flagged)
}

// LabelFor buckets a confidence score. HIGH additionally requires a sound
// sanity score and no rip or mashup flags; otherwise it demotes to MEDIUM.
func LabelFor(score, sanity float64, flagged bool) record.MatchLabel {
	switch {
	case score < noMatchBelow:
		return record.LabelNoMatch
	case score < manualReviewBelow:
		return record.LabelManualReview
	case score < mediumBelow:
		return record.LabelMedium
	default:
		if sanity < sanitySoftCapFloor || flagged {
			return record.LabelMedium
		}
		return record.LabelHigh
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
