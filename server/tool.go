package server

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/weftlabs/mcpcore/schema"
)

// ToolHandler is the capability invoked by tools/call. It receives the
// validated arguments and returns one of the ToolResult variants.
type ToolHandler func(ctx context.Context, args map[string]any) (ToolResult, error)

// Tool is a named, schema-validated, invocable capability.
type Tool struct {
	name        string
	description string
	schema      schema.Schema
	handler     ToolHandler
	annotations *ToolAnnotations
}

// NewTool creates a tool definition. The schema may be nil, in which case
// arguments are passed to the handler unvalidated.
func NewTool(name, description string, s schema.Schema, handler ToolHandler) *Tool {
	return &Tool{
		name:        name,
		description: description,
		schema:      s,
		handler:     handler,
	}
}

// Name returns the tool's unique name.
func (t *Tool) Name() string { return t.name }

// Description returns the tool's description.
func (t *Tool) Description() string { return t.description }

// Schema returns the tool's parameter schema, or nil.
func (t *Tool) Schema() schema.Schema { return t.schema }

// Annotations returns the tool's behavior hints, or nil.
func (t *Tool) Annotations() *ToolAnnotations { return t.annotations }

// ToolInfo is the listing form of a registered tool.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema map[string]any
	Annotations *ToolAnnotations
}

// ToolBuilder provides a fluent API for defining and registering tools.
type ToolBuilder struct {
	tool   *Tool
	server *Server
	err    error
}

// Description sets the tool description.
func (b *ToolBuilder) Description(desc string) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.description = desc
	return b
}

// InputSchema sets the parameter schema the dispatcher validates arguments
// against before invoking the handler.
func (b *ToolBuilder) InputSchema(s schema.Schema) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.schema = s
	return b
}

// Handler sets the handler and registers the tool with the server.
func (b *ToolBuilder) Handler(h ToolHandler) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.handler = h
	b.err = b.server.registry.AddTool(b.tool)
	return b
}

// TypedHandler sets a typed handler function and registers the tool. The
// function must have the signature
//
//	func(ctx context.Context, input T) (R, error)
//
// where T is a struct type. The input schema is generated from T unless one
// was set explicitly, and arguments are decoded into T before the call. A
// string result becomes PlainText; a ToolResult passes through; any other
// result is marshaled to JSON text.
func (b *ToolBuilder) TypedHandler(fn any) *ToolBuilder {
	if b.err != nil {
		return b
	}

	handler, generated, err := adaptTypedHandler(fn)
	if err != nil {
		b.err = fmt.Errorf("%w: tool %q: %v", ErrInvalidDefinition, b.tool.name, err)
		return b
	}
	if b.tool.schema == nil {
		b.tool.schema = generated
	}
	b.tool.handler = handler
	b.err = b.server.registry.AddTool(b.tool)
	return b
}

// Err returns the first error encountered while building or registering.
func (b *ToolBuilder) Err() error {
	return b.err
}

// adaptTypedHandler wraps a reflective handler function into a ToolHandler
// and generates the input schema from its parameter type.
func adaptTypedHandler(fn any) (ToolHandler, schema.Schema, error) {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("handler must be a function")
	}
	if fnType.NumIn() != 2 {
		return nil, nil, fmt.Errorf("handler must have (context.Context, T) parameters, got %d", fnType.NumIn())
	}
	if !fnType.In(0).Implements(reflect.TypeOf((*context.Context)(nil)).Elem()) {
		return nil, nil, fmt.Errorf("first parameter must be context.Context")
	}

	inputType := fnType.In(1)
	if inputType.Kind() == reflect.Ptr {
		inputType = inputType.Elem()
	}
	if inputType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("input parameter must be a struct type, got %s", inputType.Kind())
	}

	if fnType.NumOut() != 2 {
		return nil, nil, fmt.Errorf("handler must return (result, error), got %d return values", fnType.NumOut())
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errType) {
		return nil, nil, fmt.Errorf("second return value must be error")
	}

	generated, err := schema.GenerateFromType(inputType)
	if err != nil {
		return nil, nil, fmt.Errorf("generate input schema: %w", err)
	}

	fnVal := reflect.ValueOf(fn)
	handler := func(ctx context.Context, args map[string]any) (ToolResult, error) {
		data, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("encode arguments: %w", err)
		}
		inputPtr := reflect.New(inputType)
		if err := json.Unmarshal(data, inputPtr.Interface()); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}

		results := fnVal.Call([]reflect.Value{reflect.ValueOf(ctx), inputPtr.Elem()})
		if errVal := results[1].Interface(); errVal != nil {
			return nil, errVal.(error)
		}
		return normalizeTypedResult(results[0].Interface())
	}

	return handler, generated, nil
}

func normalizeTypedResult(v any) (ToolResult, error) {
	switch r := v.(type) {
	case nil:
		return PlainText(""), nil
	case ToolResult:
		return r, nil
	case string:
		return PlainText(r), nil
	default:
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}
		return PlainText(data), nil
	}
}
