package client

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// RequestIDKey is the context key for the outbound request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader carries the request ID to the analyzer
	RequestIDHeader = "X-Request-ID"
)

// WithRequestID returns a context whose analyzer call will be tagged with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewRequestID generates a fresh request ID.
func NewRequestID() string {
	return uuid.NewString()
}

// ensureRequestID reuses the caller's ID when present, otherwise generates one.
func ensureRequestID(ctx context.Context) string {
	if id := GetRequestID(ctx); id != "" {
		return id
	}
	return NewRequestID()
}
