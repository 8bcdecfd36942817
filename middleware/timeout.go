package middleware

import (
	"context"
	"time"

	"github.com/weftlabs/mcpcore/protocol"
)

// Timeout returns middleware that enforces a per-request deadline. When
// the handler does not complete within d, the context is cancelled and the
// handler's error is returned, typically context.DeadlineExceeded.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
