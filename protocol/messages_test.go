package protocol

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRequestIsNotification(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		notification bool
	}{
		{"with numeric id", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, false},
		{"with string id", `{"jsonrpc":"2.0","id":"a","method":"ping"}`, false},
		{"without id", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req Request
			if err := json.Unmarshal([]byte(tt.raw), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := req.IsNotification(); got != tt.notification {
				t.Errorf("IsNotification() = %v, want %v", got, tt.notification)
			}
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	id := json.RawMessage(`42`)
	resp := NewResponse(id, map[string]any{"ok": true})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["jsonrpc"] != "2.0" {
		t.Errorf("expected jsonrpc 2.0, got %v", decoded["jsonrpc"])
	}
	if decoded["error"] != nil {
		t.Error("successful response should not carry an error")
	}
}

func TestErrorResponseOmitsResult(t *testing.T) {
	resp := NewErrorResponse(json.RawMessage(`1`), NewMethodNotFound("bogus/method"))

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Result any    `json:"result"`
		Error  *Error `json:"error"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Result != nil {
		t.Error("error response should omit result")
	}
	if decoded.Error == nil || decoded.Error.Code != CodeMethodNotFound {
		t.Errorf("expected method not found error, got %+v", decoded.Error)
	}
}

func TestNewNotification(t *testing.T) {
	n := NewNotification(MethodResourceUpdated, map[string]any{"uri": "res://x"})

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["method"] != MethodResourceUpdated {
		t.Errorf("expected method %q, got %v", MethodResourceUpdated, decoded["method"])
	}
	if _, hasID := decoded["id"]; hasID {
		t.Error("notification must not carry an id")
	}
}

func TestSubscriberContext(t *testing.T) {
	ctx := context.Background()

	if got := SubscriberFromContext(ctx); got != DefaultSubscriberID {
		t.Errorf("expected default subscriber, got %q", got)
	}

	ctx = ContextWithSubscriber(ctx, "conn-7")
	if got := SubscriberFromContext(ctx); got != "conn-7" {
		t.Errorf("expected conn-7, got %q", got)
	}

	// Empty identifiers fall back to the default.
	ctx = ContextWithSubscriber(context.Background(), "")
	if got := SubscriberFromContext(ctx); got != DefaultSubscriberID {
		t.Errorf("expected default subscriber for empty id, got %q", got)
	}
}
