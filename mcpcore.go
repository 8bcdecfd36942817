// Package mcpcore provides a framework for building MCP (Model Context
// Protocol) servers: a capability registry for tools, resources, and
// resource templates, a JSON-RPC dispatcher, subscription-aware
// notification routing, and pluggable transports.
//
// Basic usage:
//
//	srv := mcpcore.NewServer(mcpcore.ServerInfo{
//	    Name:    "my-server",
//	    Version: "1.0.0",
//	})
//
//	type SearchInput struct {
//	    Query string `json:"query" jsonschema:"required"`
//	}
//
//	srv.Tool("search").
//	    Description("Search for items").
//	    TypedHandler(func(ctx context.Context, input SearchInput) ([]string, error) {
//	        return []string{"result1", "result2"}, nil
//	    })
//
//	mcpcore.ServeStdio(ctx, srv)
package mcpcore

import (
	"context"
	"time"

	"github.com/weftlabs/mcpcore/middleware"
	"github.com/weftlabs/mcpcore/protocol"
	"github.com/weftlabs/mcpcore/server"
	"github.com/weftlabs/mcpcore/transport"
)

// ServerInfo contains server metadata exposed to clients.
type ServerInfo = server.Info

// Server owns one protocol core.
type Server = server.Server

// Option configures a Server.
type Option = server.Option

// Resource types.
type ResourceContent = server.ResourceContent
type ResourceInfo = server.ResourceInfo
type ResourceAnnotations = server.ResourceAnnotations

// Tool result variants.
type ToolResult = server.ToolResult
type PlainText = server.PlainText
type ContentList = server.ContentList
type FullResult = server.FullResult
type ContentItem = server.ContentItem

// Activity types.
type ActivityEntry = server.ActivityEntry

// Progress types for long-running tool calls.
type ProgressToken = server.ProgressToken
type ProgressReporter = server.ProgressReporter

// ProgressFromContext returns the progress reporter from context. Use this
// in tool handlers to report progress for long-running operations:
//
//	srv.Tool("process").TypedHandler(func(ctx context.Context, input ProcessInput) (string, error) {
//	    progress := mcpcore.ProgressFromContext(ctx)
//	    total := 100.0
//	    for i := 0; i < 100; i++ {
//	        progress.Report(float64(i), &total)
//	    }
//	    return "done", nil
//	})
var ProgressFromContext = server.ProgressFromContext

// Middleware types.
type Middleware = middleware.Middleware
type MiddlewareHandlerFunc = middleware.HandlerFunc
type Logger = middleware.Logger
type LogField = middleware.Field
type RateLimitOption = middleware.RateLimitOption

// Rate limiting re-exports.
var (
	RateLimit             = middleware.RateLimit
	RateLimitByMethod     = middleware.RateLimitByMethod
	RateLimitBySubscriber = middleware.RateLimitBySubscriber
	WithRateLimitKeyFunc  = middleware.WithRateLimitKeyFunc
	WithRateLimitLogger   = middleware.WithRateLimitLogger
)

// Server option re-exports.
var (
	WithActivityCallback           = server.WithActivityCallback
	WithActivityCap                = server.WithActivityCap
	WithClientNotificationCallback = server.WithClientNotificationCallback
)

// HTTPOption configures the HTTP transport.
type HTTPOption = transport.HTTPOption

// WebSocketOption configures the WebSocket transport.
type WebSocketOption = transport.WebSocketOption

// ServeOption configures how the server is run.
type ServeOption func(*serveOptions)

type serveOptions struct {
	middleware []Middleware
}

// WithMiddleware adds middleware to the request handling chain.
func WithMiddleware(m ...Middleware) ServeOption {
	return func(o *serveOptions) {
		o.middleware = append(o.middleware, m...)
	}
}

// NewServer creates a server with the given identity and options.
func NewServer(info ServerInfo, opts ...Option) *Server {
	return server.New(info, opts...)
}

// ServeStdio runs the server on stdin/stdout. It blocks until the context
// is cancelled or stdin reaches EOF.
func ServeStdio(ctx context.Context, srv *Server, opts ...ServeOption) error {
	t := transport.NewStdio()
	srv.SetDelivery(t.Deliver)
	return t.Serve(ctx, newRequestHandler(srv, opts...))
}

// ServeHTTP runs the server over HTTP with an SSE notification stream.
// It blocks until the context is cancelled or an error occurs.
func ServeHTTP(ctx context.Context, srv *Server, addr string, opts ...HTTPOption) error {
	return ServeHTTPWithMiddleware(ctx, srv, addr, opts)
}

// ServeHTTPWithMiddleware runs the server over HTTP with middleware.
func ServeHTTPWithMiddleware(ctx context.Context, srv *Server, addr string, httpOpts []HTTPOption, serveOpts ...ServeOption) error {
	httpOpts = append(httpOpts, transport.WithHTTPDisconnectHook(srv.Ledger().UnsubscribeAll))
	t := transport.NewHTTP(addr, httpOpts...)
	srv.SetDelivery(t.Deliver)
	return t.Serve(ctx, newRequestHandler(srv, serveOpts...))
}

// ServeWebSocket runs the server over WebSocket connections. It blocks
// until the context is cancelled or an error occurs.
func ServeWebSocket(ctx context.Context, srv *Server, addr string, opts ...WebSocketOption) error {
	return ServeWebSocketWithMiddleware(ctx, srv, addr, opts)
}

// ServeWebSocketWithMiddleware runs the server over WebSocket with
// middleware.
func ServeWebSocketWithMiddleware(ctx context.Context, srv *Server, addr string, wsOpts []WebSocketOption, serveOpts ...ServeOption) error {
	wsOpts = append(wsOpts, transport.WithDisconnectHook(srv.Ledger().UnsubscribeAll))
	t := transport.NewWebSocket(addr, wsOpts...)
	srv.SetDelivery(t.Deliver)
	return t.Serve(ctx, newRequestHandler(srv, serveOpts...))
}

// Transport option re-exports.

// WithReadTimeout sets the read timeout for HTTP requests.
func WithReadTimeout(d time.Duration) HTTPOption {
	return transport.WithReadTimeout(d)
}

// WithWriteTimeout sets the write timeout for HTTP responses.
func WithWriteTimeout(d time.Duration) HTTPOption {
	return transport.WithWriteTimeout(d)
}

// WithWebSocketReadTimeout sets the read timeout for WebSocket messages.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return transport.WithWebSocketReadTimeout(d)
}

// WithWebSocketWriteTimeout sets the write timeout for WebSocket messages.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return transport.WithWebSocketWriteTimeout(d)
}

// Middleware re-exports.

// Chain composes multiple middleware into a single middleware.
func Chain(middlewares ...Middleware) Middleware {
	return middleware.Chain(middlewares...)
}

// Recover returns middleware that converts panics to internal errors.
func Recover() Middleware {
	return middleware.Recover()
}

// RecoverWithHandler returns middleware that catches panics and calls the
// provided handler.
func RecoverWithHandler(handler func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error)) Middleware {
	return middleware.RecoverWithHandler(handler)
}

// Timeout returns middleware that enforces a request deadline.
func Timeout(d time.Duration) Middleware {
	return middleware.Timeout(d)
}

// RequestID returns middleware that injects a unique request ID.
func RequestID() Middleware {
	return middleware.RequestID()
}

// RequestIDFromContext returns the request ID from the context, or "".
func RequestIDFromContext(ctx context.Context) string {
	return middleware.RequestIDFromContext(ctx)
}

// Logging returns middleware that logs request details.
func Logging(logger Logger) Middleware {
	return middleware.Logging(logger)
}

// DefaultMiddleware returns the recommended production middleware stack.
func DefaultMiddleware(logger Logger) []Middleware {
	return middleware.DefaultStack(logger)
}

// DefaultMiddlewareWithTimeout returns the default stack with a timeout.
func DefaultMiddlewareWithTimeout(logger Logger, timeout time.Duration) []Middleware {
	return middleware.DefaultStackWithTimeout(logger, timeout)
}

// LogF creates a log field.
func LogF(key string, value any) LogField {
	return middleware.F(key, value)
}

// requestHandler adapts a server's dispatcher to transport.Handler, with
// optional middleware wrapped around it.
type requestHandler struct {
	handleFunc middleware.HandlerFunc
}

func newRequestHandler(srv *Server, opts ...ServeOption) *requestHandler {
	options := &serveOptions{}
	for _, opt := range opts {
		opt(options)
	}

	base := middleware.HandlerFunc(srv.Dispatcher().HandleRequest)
	if len(options.middleware) > 0 {
		base = middleware.Chain(options.middleware...)(base)
	}
	return &requestHandler{handleFunc: base}
}

func (h *requestHandler) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return h.handleFunc(ctx, req)
}
