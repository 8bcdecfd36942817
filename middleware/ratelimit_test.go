package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/weftlabs/mcpcore/middleware"
	"github.com/weftlabs/mcpcore/protocol"
)

func okRequest(method string) *protocol.Request {
	return &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      json.RawMessage(`1`),
		Method:  method,
	}
}

func wantRateLimited(t *testing.T, err error) {
	t.Helper()
	var protoErr *protocol.Error
	if !errors.As(err, &protoErr) {
		t.Fatalf("expected protocol error, got %v", err)
	}
	if protoErr.Code != protocol.CodeRateLimited {
		t.Errorf("expected code %d, got %d", protocol.CodeRateLimited, protoErr.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		handler := middleware.RateLimit(10, 10)(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewResponse(req.ID, "ok"), nil
			})

		for i := 0; i < 5; i++ {
			if _, err := handler(context.Background(), okRequest("test")); err != nil {
				t.Fatalf("request %d: unexpected error: %v", i, err)
			}
		}
	})

	t.Run("rejects requests exceeding limit", func(t *testing.T) {
		handler := middleware.RateLimit(1, 1)(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewResponse(req.ID, "ok"), nil
			})

		if _, err := handler(context.Background(), okRequest("test")); err != nil {
			t.Fatalf("first request failed: %v", err)
		}

		_, err := handler(context.Background(), okRequest("test"))
		if err == nil {
			t.Fatal("expected rate limit error")
		}
		wantRateLimited(t, err)
	})

	t.Run("respects burst capacity", func(t *testing.T) {
		handler := middleware.RateLimit(1, 5)(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewResponse(req.ID, "ok"), nil
			})

		for i := 0; i < 5; i++ {
			if _, err := handler(context.Background(), okRequest("test")); err != nil {
				t.Fatalf("burst request %d failed: %v", i, err)
			}
		}
		if _, err := handler(context.Background(), okRequest("test")); err == nil {
			t.Fatal("expected rate limit error after burst")
		}
	})
}

func TestRateLimitByMethod(t *testing.T) {
	handler := middleware.RateLimitByMethod(1, 1)(
		func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

	if _, err := handler(context.Background(), okRequest("tools/list")); err != nil {
		t.Fatalf("first tools/list failed: %v", err)
	}
	if _, err := handler(context.Background(), okRequest("resources/list")); err != nil {
		t.Fatalf("other methods must have their own bucket: %v", err)
	}
	if _, err := handler(context.Background(), okRequest("tools/list")); err == nil {
		t.Fatal("expected second tools/list to be limited")
	}
}

func TestRateLimitBySubscriber(t *testing.T) {
	handler := middleware.RateLimitBySubscriber(1, 1)(
		func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

	conn1 := protocol.ContextWithSubscriber(context.Background(), "conn-1")
	conn2 := protocol.ContextWithSubscriber(context.Background(), "conn-2")

	if _, err := handler(conn1, okRequest("test")); err != nil {
		t.Fatalf("conn-1 first request failed: %v", err)
	}
	if _, err := handler(conn2, okRequest("test")); err != nil {
		t.Fatalf("conn-2 must have its own bucket: %v", err)
	}
	if _, err := handler(conn1, okRequest("test")); err == nil {
		t.Fatal("expected conn-1 second request to be limited")
	}
}

func TestRateLimitLogsRejections(t *testing.T) {
	logged := false
	logger := funcLogger(func(level, msg string) {
		if level == "warn" {
			logged = true
		}
	})

	handler := middleware.RateLimit(1, 1, middleware.WithRateLimitLogger(logger))(
		func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

	_, _ = handler(context.Background(), okRequest("test"))
	_, _ = handler(context.Background(), okRequest("test"))

	if !logged {
		t.Error("expected rejection to be logged at warn level")
	}
}

// funcLogger adapts a function to the Logger interface.
type funcLogger func(level, msg string)

func (f funcLogger) Info(msg string, _ ...middleware.Field)  { f("info", msg) }
func (f funcLogger) Error(msg string, _ ...middleware.Field) { f("error", msg) }
func (f funcLogger) Debug(msg string, _ ...middleware.Field) { f("debug", msg) }
func (f funcLogger) Warn(msg string, _ ...middleware.Field)  { f("warn", msg) }
