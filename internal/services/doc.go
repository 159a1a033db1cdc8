// Package services defines shared utilities consumed by the provider clients
// and the identification pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp the track path and correlation identifier
//     used for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (retriable vs terminal, miss vs error) uniform across
//     providers.
package services
