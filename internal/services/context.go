package services

import "context"

type contextKey string

const (
	trackPathKey contextKey = "track_path"
	requestIDKey contextKey = "request_id"
)

// WithTrackPath annotates context with the audio file being processed.
func WithTrackPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, trackPathKey, path)
}

// TrackPathFromContext returns the audio file path if present.
func TrackPathFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(trackPathKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
