// Package media reads and writes audio file metadata: embedded tag
// inspection, ID3v2 rewriting from a consolidated record, and cover art
// download.
package media
