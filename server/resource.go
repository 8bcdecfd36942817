package server

import (
	"context"

	"github.com/weftlabs/mcpcore/uritemplate"
)

// DefaultMimeType is applied to resources and templates registered without
// an explicit MIME type.
const DefaultMimeType = "text/plain"

// ResourceReader produces the content of a dynamic resource. The returned
// value may be a plain string, a ResourceText carrying per-read
// annotations, or any JSON-serializable value.
type ResourceReader func(ctx context.Context, uri string) (any, error)

// TemplateReader produces content for a URI matched by a resource template,
// given the parameters captured from the URI.
type TemplateReader func(ctx context.Context, uri string, params uritemplate.Values) (any, error)

// ResourceText is a reader result whose annotations take precedence over
// the registered resource's static annotations.
type ResourceText struct {
	Text        string
	Annotations *ResourceAnnotations
}

// Resource is a URI-addressed readable entity, either static text or a
// dynamic reader. Exactly one content source must be set.
type Resource struct {
	uri         string
	name        string
	title       string
	description string
	mimeType    string
	text        string
	hasText     bool
	reader      ResourceReader
	annotations *ResourceAnnotations
}

// NewTextResource creates a resource with static text content.
func NewTextResource(uri, name, text string) *Resource {
	return &Resource{uri: uri, name: name, text: text, hasText: true}
}

// NewReaderResource creates a resource whose content is produced on demand.
func NewReaderResource(uri string, name string, reader ResourceReader) *Resource {
	return &Resource{uri: uri, name: name, reader: reader}
}

// URI returns the resource's unique URI.
func (r *Resource) URI() string { return r.uri }

// Name returns the resource's display name.
func (r *Resource) Name() string { return r.name }

// MimeType returns the resource's MIME type, defaulting to text/plain.
func (r *Resource) MimeType() string {
	if r.mimeType == "" {
		return DefaultMimeType
	}
	return r.mimeType
}

// ResourceTemplate generates resource content parametrically for any URI
// matching its RFC 6570 pattern.
type ResourceTemplate struct {
	pattern     string
	compiled    *uritemplate.Template
	name        string
	title       string
	description string
	mimeType    string
	reader      TemplateReader
	annotations *ResourceAnnotations
}

// NewResourceTemplate creates a template definition. The pattern is
// compiled during registration.
func NewResourceTemplate(pattern, name string, reader TemplateReader) *ResourceTemplate {
	return &ResourceTemplate{pattern: pattern, name: name, reader: reader}
}

// Pattern returns the template's URI pattern.
func (t *ResourceTemplate) Pattern() string { return t.pattern }

// Name returns the template's display name.
func (t *ResourceTemplate) Name() string { return t.name }

// MimeType returns the template's MIME type, defaulting to text/plain.
func (t *ResourceTemplate) MimeType() string {
	if t.mimeType == "" {
		return DefaultMimeType
	}
	return t.mimeType
}

// ResourceContent is the result of a resource read.
type ResourceContent struct {
	URI         string               `json:"uri"`
	MimeType    string               `json:"mimeType,omitempty"`
	Text        string               `json:"text"`
	Annotations *ResourceAnnotations `json:"annotations,omitempty"`
}

// ResourceInfo is the listing form of a registered resource.
type ResourceInfo struct {
	URI         string
	Name        string
	Title       string
	Description string
	MimeType    string
	Annotations *ResourceAnnotations
}

// TemplateInfo is the listing form of a registered resource template.
type TemplateInfo struct {
	URITemplate string
	Name        string
	Title       string
	Description string
	MimeType    string
	Annotations *ResourceAnnotations
}

// ResourceBuilder provides a fluent API for defining and registering
// resources. Text and Reader are terminal: they register the resource.
type ResourceBuilder struct {
	resource *Resource
	server   *Server
	err      error
}

// Name sets the resource's display name.
func (b *ResourceBuilder) Name(name string) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	b.resource.name = name
	return b
}

// Title sets an optional human-readable title.
func (b *ResourceBuilder) Title(title string) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	b.resource.title = title
	return b
}

// Description sets the resource description.
func (b *ResourceBuilder) Description(desc string) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	b.resource.description = desc
	return b
}

// MimeType sets the MIME type of the resource content.
func (b *ResourceBuilder) MimeType(mimeType string) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	b.resource.mimeType = mimeType
	return b
}

// Text sets static text content and registers the resource.
func (b *ResourceBuilder) Text(text string) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	b.resource.text = text
	b.resource.hasText = true
	b.err = b.server.registry.AddResource(b.resource)
	return b
}

// Reader sets a dynamic reader and registers the resource.
func (b *ResourceBuilder) Reader(reader ResourceReader) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	b.resource.reader = reader
	b.err = b.server.registry.AddResource(b.resource)
	return b
}

// Err returns the first error encountered while building or registering.
func (b *ResourceBuilder) Err() error {
	return b.err
}

// TemplateBuilder provides a fluent API for defining and registering
// resource templates. Reader is terminal: it registers the template.
type TemplateBuilder struct {
	template *ResourceTemplate
	server   *Server
	err      error
}

// Name sets the template's display name.
func (b *TemplateBuilder) Name(name string) *TemplateBuilder {
	if b.err != nil {
		return b
	}
	b.template.name = name
	return b
}

// Title sets an optional human-readable title.
func (b *TemplateBuilder) Title(title string) *TemplateBuilder {
	if b.err != nil {
		return b
	}
	b.template.title = title
	return b
}

// Description sets the template description.
func (b *TemplateBuilder) Description(desc string) *TemplateBuilder {
	if b.err != nil {
		return b
	}
	b.template.description = desc
	return b
}

// MimeType sets the MIME type of generated content.
func (b *TemplateBuilder) MimeType(mimeType string) *TemplateBuilder {
	if b.err != nil {
		return b
	}
	b.template.mimeType = mimeType
	return b
}

// Annotate sets static annotations for generated content.
func (b *TemplateBuilder) Annotate(annotations ResourceAnnotations) *TemplateBuilder {
	if b.err != nil {
		return b
	}
	b.template.annotations = &annotations
	return b
}

// Reader sets the template reader and registers the template.
func (b *TemplateBuilder) Reader(reader TemplateReader) *TemplateBuilder {
	if b.err != nil {
		return b
	}
	b.template.reader = reader
	b.err = b.server.registry.AddResourceTemplate(b.template)
	return b
}

// Err returns the first error encountered while building or registering.
func (b *TemplateBuilder) Err() error {
	return b.err
}
