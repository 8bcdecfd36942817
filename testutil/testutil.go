// Package testutil provides in-memory helpers for testing servers built on
// mcpcore.
//
// TestClient drives a server's dispatcher directly, without a transport, and
// exposes typed helpers for the common requests:
//
//	func TestMyServer(t *testing.T) {
//	    srv := mcpcore.NewServer(mcpcore.ServerInfo{Name: "test", Version: "1.0.0"})
//	    srv.Tool("greet").
//	        Description("Greet someone").
//	        TypedHandler(func(ctx context.Context, input GreetInput) (string, error) {
//	            return "Hello, " + input.Name, nil
//	        })
//
//	    tc := testutil.NewTestClient(t, srv)
//	    text, err := tc.CallTool("greet", map[string]any{"name": "World"})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    if text != "Hello, World" {
//	        t.Fatalf("got %q", text)
//	    }
//	}
//
// NotificationRecorder captures server-originated notifications so tests can
// assert on deliveries without a live connection.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/weftlabs/mcpcore/protocol"
	"github.com/weftlabs/mcpcore/server"
	"github.com/weftlabs/mcpcore/transport"
)

// TestClient exercises a server through its dispatcher.
type TestClient struct {
	t          testing.TB
	srv        *server.Server
	handler    transport.Handler
	subscriber string
	reqID      int64
	mu         sync.Mutex
}

// Option configures a TestClient.
type Option func(*TestClient)

// WithSubscriber sets the subscriber identity attached to every request
// context. The default is protocol.DefaultSubscriberID.
func WithSubscriber(id string) Option {
	return func(tc *TestClient) {
		tc.subscriber = id
	}
}

// WithHandler routes requests through a custom handler instead of the
// server's bare dispatcher. Useful for testing middleware-wrapped stacks.
func WithHandler(h transport.Handler) Option {
	return func(tc *TestClient) {
		tc.handler = h
	}
}

// NewTestClient creates a client for the given server and performs the
// initialize handshake.
func NewTestClient(t testing.TB, srv *server.Server, opts ...Option) *TestClient {
	t.Helper()

	tc := &TestClient{
		t:          t,
		srv:        srv,
		subscriber: protocol.DefaultSubscriberID,
	}
	for _, opt := range opts {
		opt(tc)
	}
	if tc.handler == nil {
		tc.handler = transport.HandlerFunc(srv.Dispatcher().HandleRequest)
	}

	if _, err := tc.Initialize(); err != nil {
		t.Fatalf("failed to initialize server: %v", err)
	}

	return tc
}

func (tc *TestClient) nextID() json.RawMessage {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.reqID++
	return json.RawMessage(fmt.Sprintf("%d", tc.reqID))
}

func (tc *TestClient) context() context.Context {
	return protocol.ContextWithSubscriber(context.Background(), tc.subscriber)
}

// SendRequest sends a raw request and returns the response.
func (tc *TestClient) SendRequest(method string, params any) (*protocol.Response, error) {
	tc.t.Helper()

	var paramsData json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		paramsData = data
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      tc.nextID(),
		Method:  method,
		Params:  paramsData,
	}

	return tc.handler.HandleRequest(tc.context(), req)
}

// SendNotification sends a request without an ID and discards any response.
func (tc *TestClient) SendNotification(method string, params any) error {
	tc.t.Helper()

	var paramsData json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal params: %w", err)
		}
		paramsData = data
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		Method:  method,
		Params:  paramsData,
	}

	_, err := tc.handler.HandleRequest(tc.context(), req)
	return err
}

// decodeResult round-trips a response result through JSON into target, so
// helpers see the wire shape regardless of the dispatcher's concrete types.
func decodeResult(resp *protocol.Response, target any) error {
	data, err := json.Marshal(resp.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return json.Unmarshal(data, target)
}

// Initialize sends an initialize request and returns the raw result.
func (tc *TestClient) Initialize() (map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodInitialize, map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "1.0.0",
		},
	})
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResult(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTools lists all registered tools.
func (tc *TestClient) ListTools() ([]map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodToolsList, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tools []map[string]any `json:"tools"`
	}
	if err := decodeResult(resp, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool calls a tool and returns the text of the first content item.
func (tc *TestClient) CallTool(name string, args any) (string, error) {
	tc.t.Helper()

	resp, err := tc.CallToolRaw(name, args)
	if err != nil {
		return "", err
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := decodeResult(resp, &result); err != nil {
		return "", err
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty content array")
	}
	return result.Content[0].Text, nil
}

// CallToolRaw calls a tool and returns the raw response.
func (tc *TestClient) CallToolRaw(name string, args any) (*protocol.Response, error) {
	tc.t.Helper()

	return tc.SendRequest(protocol.MethodToolsCall, map[string]any{
		"name":      name,
		"arguments": args,
	})
}

// ListResources lists all registered static resources.
func (tc *TestClient) ListResources() ([]map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodResourcesList, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Resources []map[string]any `json:"resources"`
	}
	if err := decodeResult(resp, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ListResourceTemplates lists all registered resource templates.
func (tc *TestClient) ListResourceTemplates() ([]map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodResourcesTemplatesList, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Templates []map[string]any `json:"resourceTemplates"`
	}
	if err := decodeResult(resp, &result); err != nil {
		return nil, err
	}
	return result.Templates, nil
}

// ReadResource reads a resource by URI and returns the text of the first
// contents item.
func (tc *TestClient) ReadResource(uri string) (string, error) {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodResourcesRead, map[string]any{"uri": uri})
	if err != nil {
		return "", err
	}

	var result struct {
		Contents []struct {
			Text string `json:"text"`
		} `json:"contents"`
	}
	if err := decodeResult(resp, &result); err != nil {
		return "", err
	}
	if len(result.Contents) == 0 {
		return "", fmt.Errorf("empty contents array")
	}
	return result.Contents[0].Text, nil
}

// Subscribe subscribes this client to change notifications for a URI.
func (tc *TestClient) Subscribe(uri string) error {
	tc.t.Helper()

	_, err := tc.SendRequest(protocol.MethodResourcesSubscribe, map[string]any{"uri": uri})
	return err
}

// Unsubscribe removes this client's subscription to a URI.
func (tc *TestClient) Unsubscribe(uri string) error {
	tc.t.Helper()

	_, err := tc.SendRequest(protocol.MethodResourcesUnsubscribe, map[string]any{"uri": uri})
	return err
}

// Ping sends a ping request.
func (tc *TestClient) Ping() error {
	tc.t.Helper()

	_, err := tc.SendRequest(protocol.MethodPing, nil)
	return err
}

// AssertToolExists fails the test if the named tool is not listed.
func (tc *TestClient) AssertToolExists(name string) {
	tc.t.Helper()

	tools, err := tc.ListTools()
	if err != nil {
		tc.t.Fatalf("failed to list tools: %v", err)
	}
	for _, tool := range tools {
		if tool["name"] == name {
			return
		}
	}
	tc.t.Errorf("tool %q not found", name)
}

// AssertResourceExists fails the test if no resource has the given URI.
func (tc *TestClient) AssertResourceExists(uri string) {
	tc.t.Helper()

	resources, err := tc.ListResources()
	if err != nil {
		tc.t.Fatalf("failed to list resources: %v", err)
	}
	for _, res := range resources {
		if res["uri"] == uri {
			return
		}
	}
	tc.t.Errorf("resource %q not found", uri)
}

// AssertSubscribed fails the test if this client is not recorded as a
// subscriber of the URI.
func (tc *TestClient) AssertSubscribed(uri string) {
	tc.t.Helper()

	if tc.srv == nil {
		tc.t.Fatal("no server attached to client")
	}
	if !tc.srv.Ledger().IsSubscribed(uri, tc.subscriber) {
		tc.t.Errorf("subscriber %q not subscribed to %q", tc.subscriber, uri)
	}
}
