package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/weftlabs/mcpcore/protocol"
)

func TestTimeout(t *testing.T) {
	t.Run("fast handler completes", func(t *testing.T) {
		handler := Timeout(time.Second)(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		if _, err := handler(context.Background(), &protocol.Request{Method: "test"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("slow handler observes cancellation", func(t *testing.T) {
		handler := Timeout(10 * time.Millisecond)(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
				return protocol.NewResponse(req.ID, "ok"), nil
			}
		})

		_, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})
}
