package middleware

import (
	"context"
	"testing"

	"github.com/weftlabs/mcpcore/protocol"
)

func TestChain(t *testing.T) {
	t.Run("empty chain returns handler unchanged", func(t *testing.T) {
		called := false
		handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			called = true
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		chained := Chain()(handler)
		if _, err := chained(context.Background(), &protocol.Request{Method: "test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !called {
			t.Error("handler was not called")
		}
	})

	t.Run("middleware execute in declaration order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next HandlerFunc) HandlerFunc {
				return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
					order = append(order, name+"-before")
					resp, err := next(ctx, req)
					order = append(order, name+"-after")
					return resp, err
				}
			}
		}

		handler := HandlerFunc(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			order = append(order, "handler")
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		chained := Chain(tag("m1"), tag("m2"))(handler)
		_, _ = chained(context.Background(), &protocol.Request{Method: "test"})

		expected := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
		if len(order) != len(expected) {
			t.Fatalf("order = %v, want %v", order, expected)
		}
		for i, v := range expected {
			if order[i] != v {
				t.Errorf("order[%d] = %q, want %q", i, order[i], v)
			}
		}
	})
}

func TestStack(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	handler := Use(tag("a")).
		Append(tag("b"), tag("c")).
		Then(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			order = append(order, "handler")
			return protocol.NewResponse(req.ID, "ok"), nil
		})

	if _, err := handler(context.Background(), &protocol.Request{Method: "test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"a", "b", "c", "handler"}
	if len(order) != len(expected) {
		t.Fatalf("order = %v, want %v", order, expected)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %q, want %q", i, order[i], v)
		}
	}
}

func TestDefaultStack(t *testing.T) {
	stack := DefaultStack(NopLogger{})
	if len(stack) != 3 {
		t.Errorf("expected 3 middleware, got %d", len(stack))
	}

	handler := Chain(stack...)(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		if RequestIDFromContext(ctx) == "" {
			t.Error("expected request ID in context")
		}
		return protocol.NewResponse(req.ID, "ok"), nil
	})

	if _, err := handler(context.Background(), &protocol.Request{Method: "test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
