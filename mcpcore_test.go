package mcpcore

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/weftlabs/mcpcore/transport"
)

func TestNewServer(t *testing.T) {
	srv := NewServer(ServerInfo{
		Name:    "test-server",
		Version: "1.0.0",
	})
	if srv == nil {
		t.Fatal("expected server to be created")
	}
	if srv.Info().Name != "test-server" {
		t.Errorf("Name = %q, want %q", srv.Info().Name, "test-server")
	}
}

func serveStdioOnce(t *testing.T, srv *Server, requests []string, opts ...ServeOption) string {
	t.Helper()

	in := bytes.NewBufferString(strings.Join(requests, "\n") + "\n")
	out := &bytes.Buffer{}
	tr := transport.NewStdio(transport.WithStdin(in), transport.WithStdout(out))
	srv.SetDelivery(tr.Deliver)

	handler := newRequestHandler(srv, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = tr.Serve(ctx, handler)

	return out.String()
}

func TestStdioInitialize(t *testing.T) {
	srv := NewServer(ServerInfo{Name: "test-server", Version: "1.0.0"})

	output := serveStdioOnce(t, srv, []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test-client","version":"1.0.0"}}}`,
	})

	if !strings.Contains(output, `"protocolVersion"`) {
		t.Errorf("expected protocolVersion in response, got %q", output)
	}
	if !strings.Contains(output, `"test-server"`) {
		t.Errorf("expected server name in response, got %q", output)
	}
	if !strings.Contains(output, `"subscribe":true`) {
		t.Errorf("expected subscribe capability, got %q", output)
	}
}

func TestStdioToolCall(t *testing.T) {
	srv := NewServer(ServerInfo{Name: "test-server", Version: "1.0.0"})

	type AddInput struct {
		A float64 `json:"a" jsonschema:"required"`
		B float64 `json:"b" jsonschema:"required"`
	}
	b := srv.Tool("add").
		Description("Adds two numbers").
		TypedHandler(func(ctx context.Context, input AddInput) (string, error) {
			return strconv.FormatFloat(input.A+input.B, 'f', -1, 64), nil
		})
	if b.Err() != nil {
		t.Fatalf("register: %v", b.Err())
	}

	output := serveStdioOnce(t, srv, []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add","arguments":{"a":2,"b":3}}}`,
	})

	if !strings.Contains(output, `"text":"5"`) {
		t.Errorf("expected sum in content, got %q", output)
	}

	entries := srv.Activity().Entries()
	if len(entries) != 1 || entries[0].Tool != "add" || !entries[0].Success {
		t.Errorf("expected recorded activity, got %+v", entries)
	}
}

func TestStdioSubscribeAndNotify(t *testing.T) {
	srv := NewServer(ServerInfo{Name: "test-server", Version: "1.0.0"})
	srv.Resource("note://1").Name("note").Text("hello")

	output := serveStdioOnce(t, srv, []string{
		`{"jsonrpc":"2.0","id":1,"method":"resources/subscribe","params":{"uri":"note://1"}}`,
	})
	if !strings.Contains(output, `"id":1`) {
		t.Fatalf("expected subscribe ack, got %q", output)
	}
	if !srv.Ledger().IsSubscribed("note://1", "default") {
		t.Error("expected default subscriber registered")
	}
}

func TestStdioWithMiddleware(t *testing.T) {
	srv := NewServer(ServerInfo{Name: "test-server", Version: "1.0.0"})
	srv.Tool("boom").
		Description("Panics").
		Handler(func(ctx context.Context, args map[string]any) (ToolResult, error) {
			panic("kaboom")
		})

	output := serveStdioOnce(t, srv, []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"boom"}}`,
	}, WithMiddleware(Recover()))

	if !strings.Contains(output, `"code":-32603`) {
		t.Errorf("expected internal error from recovered panic, got %q", output)
	}
	if !strings.Contains(output, "kaboom") {
		t.Errorf("expected panic value in message, got %q", output)
	}
}

func TestStdioUnknownMethod(t *testing.T) {
	srv := NewServer(ServerInfo{Name: "test-server", Version: "1.0.0"})

	output := serveStdioOnce(t, srv, []string{
		`{"jsonrpc":"2.0","id":1,"method":"bogus/method"}`,
	})
	if !strings.Contains(output, `"code":-32601`) {
		t.Errorf("expected method-not-found, got %q", output)
	}
}
