// Package middleware provides composable request middleware for the
// protocol dispatcher.
//
// Each middleware wraps the next handler in the chain, allowing pre- and
// post-processing of requests:
//
//	chain := middleware.Chain(
//	    middleware.Recover(),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)
//	handler := chain(dispatcher.HandleRequest)
package middleware

import (
	"context"
	"time"

	"github.com/weftlabs/mcpcore/protocol"
)

// HandlerFunc is the signature for request handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes multiple middleware into a single middleware.
// Middleware are applied in order, so Chain(m1, m2, m3) results in
// m1 wrapping m2 wrapping m3 wrapping the final handler.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Stack provides a fluent API for building middleware chains.
type Stack struct {
	middlewares []Middleware
}

// Use starts a new stack with the given middleware.
func Use(middlewares ...Middleware) *Stack {
	return &Stack{middlewares: middlewares}
}

// Append adds middleware to the stack and returns it.
func (s *Stack) Append(middlewares ...Middleware) *Stack {
	s.middlewares = append(s.middlewares, middlewares...)
	return s
}

// Then applies the stack to a handler and returns the wrapped handler.
func (s *Stack) Then(handler HandlerFunc) HandlerFunc {
	return Chain(s.middlewares...)(handler)
}

// DefaultStack returns the recommended production middleware stack:
// panic recovery, request ID injection, and logging.
func DefaultStack(logger Logger) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Logging(logger),
	}
}

// DefaultStackWithTimeout returns the default stack with a per-request
// deadline.
func DefaultStackWithTimeout(logger Logger, timeout time.Duration) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Timeout(timeout),
		Logging(logger),
	}
}
