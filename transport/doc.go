// Package transport provides the communication layer for protocol servers.
//
// # Stdio Transport
//
// The stdio transport speaks line-delimited JSON-RPC over stdin/stdout,
// suitable for local tools and CLI integrations:
//
//	t := transport.NewStdio()
//	err := t.Serve(ctx, handler)
//
// # WebSocket Transport
//
// The WebSocket transport serves one JSON-RPC stream per connection. Each
// connection gets its own subscriber identity, so resource update
// notifications reach only the connections that subscribed:
//
//	t := transport.NewWebSocket(":8080")
//	err := t.Serve(ctx, handler)
//
// # HTTP Transport
//
// The HTTP transport accepts JSON-RPC over POST and pushes server
// notifications over a Server-Sent Events stream:
//
//   - POST /mcp - JSON-RPC requests
//   - GET /mcp/sse - notification stream
//   - GET /health - health check
//
// # Notification Delivery
//
// Every transport exposes a Deliver method with the router's delivery
// signature. Wiring a server to a transport is one call:
//
//	srv.SetDelivery(t.Deliver)
package transport
