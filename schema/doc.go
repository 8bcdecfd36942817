// Package schema provides the validator abstraction used to check tool
// arguments before a handler runs.
//
// A Schema is an interface with two operations: Validate checks a decoded
// JSON value and reports structured, per-field issues, and JSONSchema
// renders the canonical JSON Schema form sent to clients in tools/list.
// Concrete kinds (Object, String, Number, Integer, Boolean, Enum, Optional,
// Union, Array) are variant implementations behind that interface; callers
// never branch on the concrete type.
//
// Schemas can be declared literally:
//
//	s := &schema.Object{
//	    Properties: map[string]schema.Schema{
//	        "a": &schema.Number{},
//	        "b": &schema.Number{},
//	    },
//	    Required: []string{"a", "b"},
//	}
//
// or generated from a Go struct type with Generate, which honors json and
// jsonschema struct tags.
package schema
