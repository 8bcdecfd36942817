package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/weftlabs/mcpcore/protocol"
	"github.com/weftlabs/mcpcore/schema"
)

// Dispatcher routes inbound JSON-RPC methods to the protocol core. It is
// stateless per call: all state lives in the Server it is bound to.
type Dispatcher struct {
	srv *Server
}

// NewDispatcher creates a dispatcher bound to the given server.
func NewDispatcher(srv *Server) *Dispatcher {
	return &Dispatcher{srv: srv}
}

// HandleRequest dispatches a request and wraps the outcome in a JSON-RPC
// response envelope. Typed protocol errors are returned as-is for the
// transport to serialize.
func (d *Dispatcher) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	result, err := d.Dispatch(ctx, req.Method, req.Params)
	if err != nil {
		return nil, err
	}
	return protocol.NewResponse(req.ID, result), nil
}

// Dispatch routes a method to its handler and returns the raw result. All
// failures are typed *protocol.Error values.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case protocol.MethodInitialize:
		return d.handleInitialize(), nil
	case protocol.MethodToolsList:
		return d.handleToolsList(), nil
	case protocol.MethodToolsCall:
		return d.handleToolsCall(ctx, params)
	case protocol.MethodResourcesList:
		return d.handleResourcesList(), nil
	case protocol.MethodResourcesTemplatesList:
		return d.handleTemplatesList(), nil
	case protocol.MethodResourcesRead:
		return d.handleResourcesRead(ctx, params)
	case protocol.MethodResourcesSubscribe:
		return d.handleSubscribe(ctx, params, true)
	case protocol.MethodResourcesUnsubscribe:
		return d.handleSubscribe(ctx, params, false)
	case protocol.MethodPing:
		return map[string]any{}, nil
	case protocol.MethodInitialized, protocol.MethodCancelled, protocol.MethodRootsListChanged:
		if d.srv.onClientNotification != nil {
			d.srv.onClientNotification(method, params)
		}
		return map[string]any{}, nil
	default:
		return nil, protocol.NewMethodNotFound(method)
	}
}

func (d *Dispatcher) handleInitialize() any {
	return map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"serverInfo": map[string]any{
			"name":    d.srv.info.Name,
			"version": d.srv.info.Version,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{
				"listChanged": true,
			},
			"resources": map[string]any{
				"subscribe":   true,
				"listChanged": true,
			},
		},
	}
}

func (d *Dispatcher) handleToolsList() any {
	tools := d.srv.registry.Tools()

	toolList := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		item := map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		}
		if t.Annotations != nil {
			item["annotations"] = t.Annotations
		}
		toolList = append(toolList, item)
	}
	return map[string]any{"tools": toolList}
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, params json.RawMessage) (any, error) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, protocol.NewInvalidParams(err.Error())
	}

	tool, ok := d.srv.registry.Tool(call.Name)
	if !ok {
		return nil, protocol.NewInvalidParams("unknown tool: " + call.Name)
	}

	args, err := d.validateArguments(tool, call.Arguments)
	if err != nil {
		return nil, err
	}

	if token := extractProgressToken(params); token != "" {
		ctx = ContextWithProgress(ctx, &progressReporter{
			token:  token,
			router: d.srv.router,
			target: protocol.SubscriberFromContext(ctx),
		})
	}

	result, err := tool.handler(ctx, args)
	d.srv.recordActivity(tool.name, err == nil, err)
	if err != nil {
		var protoErr *protocol.Error
		if errors.As(err, &protoErr) {
			return nil, protoErr
		}
		return nil, protocol.NewInternalError(err.Error())
	}

	return normalizeToolResult(result), nil
}

// validateArguments checks the raw arguments against the tool's schema and
// decodes them. Validation failures surface as invalid-params errors with
// the per-field issue list attached as data.
func (d *Dispatcher) validateArguments(tool *Tool, raw json.RawMessage) (map[string]any, error) {
	if raw == nil {
		raw = json.RawMessage(`{}`)
	}

	if tool.schema != nil {
		if err := schema.ValidateJSON(tool.schema, raw); err != nil {
			invalid := protocol.NewInvalidParams("invalid arguments for tool " + tool.name)
			var verrs schema.ValidationErrors
			if errors.As(err, &verrs) {
				return nil, invalid.WithData(verrs.Issues())
			}
			return nil, invalid.WithData(err.Error())
		}
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, protocol.NewInvalidParams("arguments must be an object")
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// normalizeToolResult flattens the ToolResult union into the wire shape.
func normalizeToolResult(result ToolResult) map[string]any {
	switch r := result.(type) {
	case PlainText:
		return map[string]any{
			"content": []ContentItem{TextItem(string(r))},
		}
	case ContentList:
		return map[string]any{
			"content": []ContentItem(r),
		}
	case FullResult:
		out := map[string]any{"content": r.Content}
		if r.IsError {
			out["isError"] = true
		}
		return out
	default:
		return map[string]any{"content": []ContentItem{}}
	}
}

func (d *Dispatcher) handleResourcesList() any {
	resources := d.srv.registry.Resources()

	resourceList := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		item := map[string]any{
			"uri":      r.URI,
			"name":     r.Name,
			"mimeType": r.MimeType,
		}
		if r.Title != "" {
			item["title"] = r.Title
		}
		if r.Description != "" {
			item["description"] = r.Description
		}
		if r.Annotations != nil {
			item["annotations"] = r.Annotations
		}
		resourceList = append(resourceList, item)
	}
	return map[string]any{"resources": resourceList}
}

func (d *Dispatcher) handleTemplatesList() any {
	templates := d.srv.registry.Templates()

	templateList := make([]map[string]any, 0, len(templates))
	for _, t := range templates {
		item := map[string]any{
			"uriTemplate": t.URITemplate,
			"name":        t.Name,
			"mimeType":    t.MimeType,
		}
		if t.Title != "" {
			item["title"] = t.Title
		}
		if t.Description != "" {
			item["description"] = t.Description
		}
		if t.Annotations != nil {
			item["annotations"] = t.Annotations
		}
		templateList = append(templateList, item)
	}
	return map[string]any{"resourceTemplates": templateList}
}

func (d *Dispatcher) handleResourcesRead(ctx context.Context, params json.RawMessage) (any, error) {
	uri, err := uriParam(params)
	if err != nil {
		return nil, err
	}

	content, err := d.srv.registry.ReadResource(ctx, uri)
	if err != nil {
		var protoErr *protocol.Error
		if errors.As(err, &protoErr) {
			return nil, protoErr
		}
		return nil, protocol.NewInternalError(err.Error())
	}

	return map[string]any{
		"contents": []*ResourceContent{content},
	}, nil
}

func (d *Dispatcher) handleSubscribe(ctx context.Context, params json.RawMessage, subscribe bool) (any, error) {
	uri, err := uriParam(params)
	if err != nil {
		return nil, err
	}

	id := protocol.SubscriberFromContext(ctx)
	if subscribe {
		d.srv.ledger.Subscribe(uri, id)
	} else {
		d.srv.ledger.Unsubscribe(uri, id)
	}
	return map[string]any{}, nil
}

func uriParam(params json.RawMessage) (string, error) {
	var p struct {
		URI string `json:"uri"`
	}
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return "", protocol.NewInvalidParams(err.Error())
		}
	}
	if p.URI == "" {
		return "", protocol.NewInvalidParams("missing required parameter: uri")
	}
	return p.URI, nil
}
