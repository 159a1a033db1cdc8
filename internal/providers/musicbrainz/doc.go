// Package musicbrainz fetches canonical recording metadata (artists,
// releases, tags, ISRCs) from the MusicBrainz web service.
package musicbrainz
