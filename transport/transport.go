package transport

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/weftlabs/mcpcore/protocol"
)

// Handler processes inbound requests.
type Handler interface {
	HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// HandlerFunc is an adapter to allow ordinary functions as handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// HandleRequest calls f(ctx, req).
func (f HandlerFunc) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return f(ctx, req)
}

// Transport is the communication layer interface. Serve blocks until ctx is
// cancelled or an unrecoverable error occurs. Deliver has the router's
// delivery signature: nil targets broadcast to every connected client, an
// explicit target list restricts delivery to those subscriber IDs.
type Transport interface {
	Serve(ctx context.Context, handler Handler) error
	Deliver(method string, params any, targets []string)
	Addr() string
}

// encodeNotification builds the wire form of a server notification.
func encodeNotification(method string, params any) ([]byte, error) {
	return json.Marshal(protocol.NewNotification(method, params))
}

// targeted reports whether id is addressed by targets. A nil target list
// addresses everyone.
func targeted(targets []string, id string) bool {
	if targets == nil {
		return true
	}
	for _, t := range targets {
		if t == id {
			return true
		}
	}
	return false
}

// respond turns a handler outcome into the response to write, or nil when
// the inbound message was a notification.
func respond(req *protocol.Request, resp *protocol.Response, err error) *protocol.Response {
	if req.IsNotification() {
		return nil
	}
	if err != nil {
		var protoErr *protocol.Error
		if errors.As(err, &protoErr) {
			return protocol.NewErrorResponse(req.ID, protoErr)
		}
		return protocol.NewErrorResponse(req.ID, protocol.NewInternalError(err.Error()))
	}
	return resp
}
