// Package discogs searches and deep-fetches marketplace catalog releases:
// labels, catalog numbers, styles, tracklists, and extended credits.
package discogs
