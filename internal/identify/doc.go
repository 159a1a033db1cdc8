// Package identify turns raw fingerprint candidates into a single trusted
// identity: resolving the local reference text, selecting the best candidate
// against it, picking the most representative release, and measuring how
// sane a proposed identity looks next to the local evidence.
package identify
