package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code int
	}{
		{"parse error", NewParseError("bad json"), -32700},
		{"invalid request", NewInvalidRequest("no jsonrpc field"), -32600},
		{"method not found", NewMethodNotFound("nope"), -32601},
		{"invalid params", NewInvalidParams("missing uri"), -32602},
		{"internal error", NewInternalError("boom"), -32603},
		{"resource not found", NewResourceNotFound("res://missing"), -32002},
		{"rate limited", NewRateLimited("slow down"), -32003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.err.Code)
			}
		})
	}
}

func TestErrorImplementsError(t *testing.T) {
	err := NewInvalidParams("missing field")

	msg := err.Error()
	if msg == "" {
		t.Error("expected non-empty error message")
	}

	// Must survive wrapping.
	wrapped := fmt.Errorf("dispatch failed: %w", err)

	var protoErr *Error
	if !errors.As(wrapped, &protoErr) {
		t.Fatal("expected errors.As to recover *Error from wrapped error")
	}
	if protoErr.Code != CodeInvalidParams {
		t.Errorf("expected code %d, got %d", CodeInvalidParams, protoErr.Code)
	}
}

func TestErrorIsComparesByCode(t *testing.T) {
	a := NewResourceNotFound("res://a")
	b := NewResourceNotFound("res://b")
	c := NewInternalError("boom")

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
	if errors.Is(a, errors.New("plain")) {
		t.Error("protocol error should not match a plain error")
	}
}

func TestErrorWithData(t *testing.T) {
	base := NewInvalidParams("validation failed")
	issues := []map[string]any{{"path": "a", "message": "required"}}

	withData := base.WithData(issues)

	if withData.Code != base.Code || withData.Message != base.Message {
		t.Error("WithData should preserve code and message")
	}
	if withData.Data == nil {
		t.Error("WithData should attach data")
	}
	if base.Data != nil {
		t.Error("WithData should not mutate the original error")
	}
}
