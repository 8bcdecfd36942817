package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/weftlabs/mcpcore/protocol"
)

func TestRecover(t *testing.T) {
	t.Run("passes through successful requests", func(t *testing.T) {
		handler := Recover()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		resp, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp == nil {
			t.Fatal("expected response")
		}
	})

	t.Run("converts panic to internal error", func(t *testing.T) {
		handler := Recover()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			panic("something broke")
		})

		_, err := handler(context.Background(), &protocol.Request{Method: "tools/call"})

		var protoErr *protocol.Error
		if !errors.As(err, &protoErr) {
			t.Fatalf("expected protocol error, got %v", err)
		}
		if protoErr.Code != protocol.CodeInternalError {
			t.Errorf("expected internal error code, got %d", protoErr.Code)
		}
		if !strings.Contains(protoErr.Message, "tools/call") || !strings.Contains(protoErr.Message, "something broke") {
			t.Errorf("message should name the method and panic value, got %q", protoErr.Message)
		}
	})

	t.Run("custom handler receives panic value", func(t *testing.T) {
		var captured any
		mw := RecoverWithHandler(func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error) {
			captured = panicVal
			return protocol.NewResponse(req.ID, "recovered"), nil
		})

		handler := mw(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			panic(42)
		})

		resp, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp == nil {
			t.Fatal("expected response from custom handler")
		}
		if captured != 42 {
			t.Errorf("expected panic value 42, got %v", captured)
		}
	})
}
