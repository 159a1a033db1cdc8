// Package textutil provides the text comparison primitives the identification
// pipeline is built on.
//
// The primary use cases are:
//   - Normalizing titles and artists for cross-provider comparison
//   - Scoring string pairs (exact, substring, token Jaccard) with remix
//     variant adjustment
//   - Cleaning rip noise out of filenames to seed searches
//   - Sanitizing filenames and path segments for safe filesystem use
package textutil
