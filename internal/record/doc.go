// Package record defines the unified track record the pipeline consolidates
// provider answers into, plus the merge policy that decides which provider
// may write which field. Field precedence lives in one table here; callers
// submit patches and never write record fields directly.
package record
