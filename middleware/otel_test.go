package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/weftlabs/mcpcore/protocol"
)

func TestOTel(t *testing.T) {
	t.Run("creates span for request", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return &protocol.Response{ID: req.ID}, nil
			})

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/list"}
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Name != "rpc.tools/list" {
			t.Errorf("unexpected span name %q", spans[0].Name)
		}
	})

	t.Run("records error on failure", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return nil, protocol.NewInternalError("handler failed")
			})

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/call"}
		_, err := handler(context.Background(), req)
		if err == nil {
			t.Fatal("expected error")
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if len(spans[0].Events) == 0 {
			t.Error("expected error event on span")
		}
	})

	t.Run("skips configured methods", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp), WithOTelSkipMethods("ping"))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return &protocol.Response{ID: req.ID}, nil
			})

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "ping"}
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(exporter.GetSpans()) != 0 {
			t.Error("expected no spans for skipped method")
		}
	})

	t.Run("records metrics without panicking", func(t *testing.T) {
		mp := sdkmetric.NewMeterProvider()
		defer mp.Shutdown(context.Background())

		handler := OTel(WithMeterProvider(mp), WithOTelServiceName("test-svc"))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				if req.Method == "fails" {
					return nil, errors.New("boom")
				}
				return &protocol.Response{ID: req.ID}, nil
			})

		for _, method := range []string{"tools/list", "fails"} {
			req := &protocol.Request{ID: json.RawMessage("1"), Method: method}
			_, _ = handler(context.Background(), req)
		}
	})
}
