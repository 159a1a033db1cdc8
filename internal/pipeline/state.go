package pipeline

import "autotag/internal/record"

// State tracks how far one file made it through reconciliation.
type State string

const (
	StatePending       State = "pending"
	StateFingerprinted State = "fingerprinted"
	StateEnriched      State = "enriched"
	StateCrossChecked  State = "cross_checked"
	StateFinalized     State = "finalized"
	StateRejected      State = "rejected"
)

// Outcome is the pipeline's answer for one file. State is the last stage the
// file reached; Err is set when a stage failed outright rather than deciding
// against the file, in which case Reason stays empty.
type Outcome struct {
	Path   string
	State  State
	Record *record.UnifiedTrackRecord
	Reason string
	Err    error
}

// Accepted reports whether the record survived every guardrail.
func (o Outcome) Accepted() bool {
	return o.Err == nil && o.State == StateFinalized
}
