// Package logging wires log/slog for the tagger: a console handler that
// promotes the component attribute into the message prefix, a JSON handler
// for log files, and helpers for standardized attribute keys.
package logging
