// Package pipeline reconciles the answers of every provider into one unified
// record per audio file and decides whether that record is trustworthy enough
// to write back.
//
// A file moves through a fixed sequence of states: fingerprinted, enriched
// with canonical recording metadata, cross-checked against the streaming and
// editorial catalogs, then finalized or rejected by the confidence guardrail.
// Each stage only ever adds evidence through the central merge policy in
// package record, so a later, weaker source can never silently overwrite a
// stronger one.
package pipeline
