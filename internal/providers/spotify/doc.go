// Package spotify searches the streaming catalog for candidate tracks and
// scores them against a reference identity. Authentication uses the
// client-credentials flow; the token is cached until shortly before expiry.
package spotify
