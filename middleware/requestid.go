package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/weftlabs/mcpcore/protocol"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID returns middleware that injects a unique request ID into the
// context. An ID already present in the context is preserved.
func RequestID() Middleware {
	return RequestIDWithGenerator(func() string {
		return uuid.NewString()
	})
}

// RequestIDWithGenerator returns middleware that uses a custom ID generator.
func RequestIDWithGenerator(generator func() string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if existing := RequestIDFromContext(ctx); existing != "" {
				return next(ctx, req)
			}
			return next(ContextWithRequestID(ctx, generator()), req)
		}
	}
}

// RequestIDFromContext returns the request ID from the context, or "" if
// not set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithRequestID returns a new context with the request ID set.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
