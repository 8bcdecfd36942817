package server

// ToolAnnotations provides metadata hints about tool behavior. These help
// clients understand what a tool does without calling it.
type ToolAnnotations struct {
	// Title is a human-readable title for the tool.
	Title string `json:"title,omitempty"`

	// ReadOnlyHint indicates the tool only reads data (no side effects).
	// Default: false.
	ReadOnlyHint *bool `json:"readOnlyHint,omitempty"`

	// DestructiveHint indicates the tool might make destructive changes.
	// Default: true; meaningful only when the tool is not read-only.
	DestructiveHint *bool `json:"destructiveHint,omitempty"`

	// IdempotentHint indicates repeated calls with the same input have the
	// same effect as one call. Default: false; meaningful only when the tool
	// is not read-only.
	IdempotentHint *bool `json:"idempotentHint,omitempty"`

	// OpenWorldHint indicates the tool interacts with systems outside the
	// MCP host environment. Default: true.
	OpenWorldHint *bool `json:"openWorldHint,omitempty"`
}

// ResourceAnnotations provides metadata hints about resource content. A
// resource reader may return per-read annotations that take precedence over
// the registered ones.
type ResourceAnnotations struct {
	// Audience describes who the content is intended for: "user" for human
	// consumption, "assistant" for LLM use.
	Audience []string `json:"audience,omitempty"`

	// Priority suggests relative priority of this resource (0.0 to 1.0).
	Priority *float64 `json:"priority,omitempty"`
}

// Bool returns a pointer to a bool value for use in annotations.
func Bool(v bool) *bool {
	return &v
}

// Float returns a pointer to a float64 value for use in annotations.
func Float(v float64) *float64 {
	return &v
}

// Title sets a human-readable title for the tool.
func (b *ToolBuilder) Title(title string) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.annotations().Title = title
	return b
}

// ReadOnly marks the tool as read-only (no side effects).
func (b *ToolBuilder) ReadOnly() *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.annotations().ReadOnlyHint = Bool(true)
	b.annotations().DestructiveHint = Bool(false)
	return b
}

// Destructive marks the tool as potentially destructive.
func (b *ToolBuilder) Destructive() *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.annotations().DestructiveHint = Bool(true)
	return b
}

// Idempotent marks the tool as idempotent.
func (b *ToolBuilder) Idempotent() *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.annotations().IdempotentHint = Bool(true)
	return b
}

// ClosedWorld marks the tool as not accessing external systems.
func (b *ToolBuilder) ClosedWorld() *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.annotations().OpenWorldHint = Bool(false)
	return b
}

// Annotations replaces the tool annotations wholesale.
func (b *ToolBuilder) Annotations(annotations ToolAnnotations) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.annotations = &annotations
	return b
}

func (b *ToolBuilder) annotations() *ToolAnnotations {
	if b.tool.annotations == nil {
		b.tool.annotations = &ToolAnnotations{}
	}
	return b.tool.annotations
}

// Audience sets the intended audience for the resource.
func (b *ResourceBuilder) Audience(audience ...string) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	if b.resource.annotations == nil {
		b.resource.annotations = &ResourceAnnotations{}
	}
	b.resource.annotations.Audience = audience
	return b
}

// Priority sets the priority hint for the resource (0.0 to 1.0).
func (b *ResourceBuilder) Priority(priority float64) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	if b.resource.annotations == nil {
		b.resource.annotations = &ResourceAnnotations{}
	}
	b.resource.annotations.Priority = Float(priority)
	return b
}
