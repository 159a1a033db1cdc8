// Package acoustid resolves Chromaprint fingerprints to recording candidates
// via the AcoustID web service.
package acoustid
