package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/weftlabs/mcpcore/protocol"
)

func newRPCServer(t *testing.T, handler Handler) (*HTTP, *httptest.Server) {
	t.Helper()
	h := NewHTTP(":0")
	srv := httptest.NewServer(h.createHandler(handler))
	t.Cleanup(srv.Close)
	return h, srv
}

func TestHTTPHealth(t *testing.T) {
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, "ok"), nil
	}))

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestHTTPRequestResponse(t *testing.T) {
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		if req.Method != "ping" {
			return nil, protocol.NewMethodNotFound(req.Method)
		}
		return protocol.NewResponse(req.ID, map[string]any{}), nil
	}))

	resp, err := http.Post(srv.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp protocol.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error != nil {
		t.Errorf("unexpected error: %v", rpcResp.Error)
	}
	if string(rpcResp.ID) != "1" {
		t.Errorf("expected ID 1, got %s", rpcResp.ID)
	}
}

func TestHTTPHandlerError(t *testing.T) {
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return nil, protocol.NewInvalidParams("missing required parameter: uri")
	}))

	resp, err := http.Post(srv.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"resources/read"}`))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp protocol.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error == nil || rpcResp.Error.Code != protocol.CodeInvalidParams {
		t.Errorf("expected invalid-params error, got %+v", rpcResp.Error)
	}
}

func TestHTTPParseError(t *testing.T) {
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		t.Error("handler must not be called for unparseable input")
		return nil, nil
	}))

	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp protocol.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error == nil || rpcResp.Error.Code != protocol.CodeParseError {
		t.Errorf("expected parse error, got %+v", rpcResp.Error)
	}
}

func TestHTTPMethodNotAllowed(t *testing.T) {
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, "ok"), nil
	}))

	resp, err := http.Get(srv.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHTTPSessionBindsSubscriber(t *testing.T) {
	got := make(chan string, 1)
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		got <- protocol.SubscriberFromContext(ctx)
		return protocol.NewResponse(req.ID, map[string]any{}), nil
	}))

	resp, err := http.Post(srv.URL+"/mcp?sessionID=sess-42", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	resp.Body.Close()

	if id := <-got; id != "sess-42" {
		t.Errorf("expected subscriber sess-42, got %q", id)
	}
}

func TestHTTPNotificationAccepted(t *testing.T) {
	_, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, map[string]any{}), nil
	}))

	resp, err := http.Post(srv.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("expected 202 for notification, got %d", resp.StatusCode)
	}
}

func TestHTTPRejectsWhileDraining(t *testing.T) {
	h, srv := newRPCServer(t, HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, map[string]any{}), nil
	}))

	drainCtx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = h.shutdown.Shutdown(drainCtx)

	resp, err := http.Post(srv.URL+"/mcp", "application/json",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while draining, got %d", resp.StatusCode)
	}
}

func TestHTTPDeliverWithoutSessions(t *testing.T) {
	h := NewHTTP(":0")
	// Must not panic with no connected streams.
	h.Deliver("notifications/tools/list_changed", nil, nil)
	h.Deliver("notifications/resources/updated", map[string]any{"uri": "x"}, []string{"nobody"})
}
