// Package match reconciles a partially known track identity against the
// release catalog: building search variants, scoring returned candidates
// field by field, and blending the best score with local sanity into a
// labeled confidence.
package match
