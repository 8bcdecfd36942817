package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/weftlabs/mcpcore/protocol"
	"github.com/weftlabs/mcpcore/uritemplate"
)

// ErrInvalidDefinition is returned when a tool, resource, or template is
// registered with missing or contradictory fields. Use errors.Is to detect
// it across the wrapped variants.
var ErrInvalidDefinition = errors.New("invalid definition")

// Registry stores the server's invocable and readable capabilities. All
// operations are safe for concurrent use. Registering a duplicate key
// overwrites the previous entry; nothing is ever deleted.
type Registry struct {
	mu            sync.RWMutex
	tools         map[string]*Tool
	toolOrder     []string
	resources     map[string]*Resource
	resourceOrder []string
	templates     []*ResourceTemplate
	templateIndex map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:         make(map[string]*Tool),
		resources:     make(map[string]*Resource),
		templateIndex: make(map[string]int),
	}
}

// AddTool registers a tool. The name and handler are required.
func (r *Registry) AddTool(t *Tool) error {
	if t == nil || t.name == "" {
		return fmt.Errorf("%w: tool name is required", ErrInvalidDefinition)
	}
	if t.handler == nil {
		return fmt.Errorf("%w: tool %q has no handler", ErrInvalidDefinition, t.name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.name]; !exists {
		r.toolOrder = append(r.toolOrder, t.name)
	}
	r.tools[t.name] = t
	return nil
}

// AddTools registers several tools, stopping at the first invalid one.
func (r *Registry) AddTools(tools ...*Tool) error {
	for _, t := range tools {
		if err := r.AddTool(t); err != nil {
			return err
		}
	}
	return nil
}

// AddResource registers a resource. The URI, name, and exactly one content
// source (static text or reader) are required.
func (r *Registry) AddResource(res *Resource) error {
	if res == nil || res.uri == "" {
		return fmt.Errorf("%w: resource URI is required", ErrInvalidDefinition)
	}
	if res.name == "" {
		return fmt.Errorf("%w: resource %q has no name", ErrInvalidDefinition, res.uri)
	}
	if !res.hasText && res.reader == nil {
		return fmt.Errorf("%w: resource %q needs static text or a reader", ErrInvalidDefinition, res.uri)
	}
	if res.hasText && res.reader != nil {
		return fmt.Errorf("%w: resource %q has both static text and a reader", ErrInvalidDefinition, res.uri)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.resources[res.uri]; !exists {
		r.resourceOrder = append(r.resourceOrder, res.uri)
	}
	r.resources[res.uri] = res
	return nil
}

// AddResources registers several resources, stopping at the first invalid one.
func (r *Registry) AddResources(resources ...*Resource) error {
	for _, res := range resources {
		if err := r.AddResource(res); err != nil {
			return err
		}
	}
	return nil
}

// AddResourceTemplate registers a template. The pattern, name, and reader
// are required; the pattern must compile. Re-registering a pattern keeps
// its original position in the match order.
func (r *Registry) AddResourceTemplate(t *ResourceTemplate) error {
	if t == nil || t.pattern == "" {
		return fmt.Errorf("%w: template pattern is required", ErrInvalidDefinition)
	}
	if t.name == "" {
		return fmt.Errorf("%w: template %q has no name", ErrInvalidDefinition, t.pattern)
	}
	if t.reader == nil {
		return fmt.Errorf("%w: template %q has no reader", ErrInvalidDefinition, t.pattern)
	}

	compiled, err := uritemplate.Compile(t.pattern)
	if err != nil {
		return fmt.Errorf("%w: template %q: %v", ErrInvalidDefinition, t.pattern, err)
	}
	t.compiled = compiled

	r.mu.Lock()
	defer r.mu.Unlock()
	if i, exists := r.templateIndex[t.pattern]; exists {
		r.templates[i] = t
		return nil
	}
	r.templateIndex[t.pattern] = len(r.templates)
	r.templates = append(r.templates, t)
	return nil
}

// AddResourceTemplates registers several templates, stopping at the first
// invalid one.
func (r *Registry) AddResourceTemplates(templates ...*ResourceTemplate) error {
	for _, t := range templates {
		if err := r.AddResourceTemplate(t); err != nil {
			return err
		}
	}
	return nil
}

// Tool retrieves a tool by name.
func (r *Registry) Tool(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns info about all registered tools in registration order.
func (r *Registry) Tools() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ToolInfo, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		t := r.tools[name]
		info := ToolInfo{
			Name:        t.name,
			Description: t.description,
			Annotations: t.annotations,
		}
		if t.schema != nil {
			info.InputSchema = t.schema.JSONSchema()
		} else {
			info.InputSchema = map[string]any{"type": "object"}
		}
		result = append(result, info)
	}
	return result
}

// Resources returns info about all registered resources in registration order.
func (r *Registry) Resources() []ResourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ResourceInfo, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		res := r.resources[uri]
		result = append(result, ResourceInfo{
			URI:         res.uri,
			Name:        res.name,
			Title:       res.title,
			Description: res.description,
			MimeType:    res.MimeType(),
			Annotations: res.annotations,
		})
	}
	return result
}

// Templates returns info about all registered templates in registration order.
func (r *Registry) Templates() []TemplateInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]TemplateInfo, 0, len(r.templates))
	for _, t := range r.templates {
		result = append(result, TemplateInfo{
			URITemplate: t.pattern,
			Name:        t.name,
			Title:       t.title,
			Description: t.description,
			MimeType:    t.MimeType(),
			Annotations: t.annotations,
		})
	}
	return result
}

// ReadResource resolves a URI to content. An exact resource match always
// wins over a template match, even when a template would also match the
// URI; templates are tried in registration order and the first structural
// match is used. A miss returns a resource-not-found protocol error.
func (r *Registry) ReadResource(ctx context.Context, uri string) (*ResourceContent, error) {
	r.mu.RLock()
	res, exact := r.resources[uri]
	var (
		tmpl   *ResourceTemplate
		params uritemplate.Values
	)
	if !exact {
		for _, t := range r.templates {
			if values, ok := t.compiled.Match(uri); ok {
				tmpl, params = t, values
				break
			}
		}
	}
	r.mu.RUnlock()

	switch {
	case exact:
		return readConcrete(ctx, res, uri)
	case tmpl != nil:
		return readTemplated(ctx, tmpl, uri, params)
	default:
		return nil, protocol.NewResourceNotFound("resource not found: " + uri)
	}
}

func readConcrete(ctx context.Context, res *Resource, uri string) (*ResourceContent, error) {
	content := &ResourceContent{
		URI:         uri,
		MimeType:    res.MimeType(),
		Annotations: res.annotations,
	}
	if res.hasText {
		content.Text = res.text
		return content, nil
	}

	value, err := res.reader(ctx, uri)
	if err != nil {
		return nil, err
	}
	return fillContent(content, value)
}

func readTemplated(ctx context.Context, tmpl *ResourceTemplate, uri string, params uritemplate.Values) (*ResourceContent, error) {
	value, err := tmpl.reader(ctx, uri, params)
	if err != nil {
		return nil, err
	}
	content := &ResourceContent{
		URI:         uri,
		MimeType:    tmpl.MimeType(),
		Annotations: tmpl.annotations,
	}
	return fillContent(content, value)
}

// fillContent normalizes a reader result. Plain strings become the text
// directly; a ResourceText contributes its text and, when set, its
// annotations in place of the static ones; anything else is serialized to
// canonical JSON text.
func fillContent(content *ResourceContent, value any) (*ResourceContent, error) {
	switch v := value.(type) {
	case string:
		content.Text = v
	case ResourceText:
		content.Text = v.Text
		if v.Annotations != nil {
			content.Annotations = v.Annotations
		}
	case *ResourceText:
		content.Text = v.Text
		if v.Annotations != nil {
			content.Annotations = v.Annotations
		}
	case []byte:
		content.Text = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("serialize resource content: %w", err)
		}
		content.Text = string(data)
	}
	return content, nil
}
