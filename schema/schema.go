package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// Schema validates decoded JSON values and renders its canonical JSON Schema
// form. Implementations are the variant types in this package; external
// implementations are permitted as long as Validate returns ValidationErrors
// for structured failures.
type Schema interface {
	// JSONSchema renders the schema as a JSON-Schema-like document.
	JSONSchema() map[string]any

	// Validate checks a decoded JSON value (the result of unmarshaling into
	// any). It returns nil for valid input, or ValidationErrors describing
	// every violated constraint.
	Validate(value any) error
}

// ValidateJSON unmarshals raw JSON and validates it against the schema.
func ValidateJSON(s Schema, data json.RawMessage) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return ValidationErrors{{Message: fmt.Sprintf("invalid JSON: %s", err)}}
	}
	return s.Validate(value)
}

// Object validates JSON objects with named, typed properties.
type Object struct {
	Properties  map[string]Schema
	Required    []string
	Description string
}

func (s *Object) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		props[name] = prop.JSONSchema()
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *Object) Validate(value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return ValidationErrors{{Message: fmt.Sprintf("expected object, got %T", value)}}
	}

	var errs ValidationErrors
	for _, req := range s.Required {
		if _, exists := obj[req]; !exists {
			errs = append(errs, &ValidationError{Path: req, Message: "required field is missing"})
		}
	}
	for name, prop := range s.Properties {
		if val, exists := obj[name]; exists {
			validateChild(prop, name, val, &errs)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// String validates JSON strings.
type String struct {
	Description string
}

func (s *String) JSONSchema() map[string]any {
	doc := map[string]any{"type": "string"}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *String) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return ValidationErrors{{Message: fmt.Sprintf("expected string, got %T", value)}}
	}
	return nil
}

// Number validates JSON numbers, with optional bounds.
type Number struct {
	Minimum     *float64
	Maximum     *float64
	Description string
}

func (s *Number) JSONSchema() map[string]any {
	doc := map[string]any{"type": "number"}
	if s.Minimum != nil {
		doc["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		doc["maximum"] = *s.Maximum
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *Number) Validate(value any) error {
	num, ok := asFloat(value)
	if !ok {
		return ValidationErrors{{Message: fmt.Sprintf("expected number, got %T", value)}}
	}
	return checkBounds(num, s.Minimum, s.Maximum)
}

// Integer validates whole JSON numbers, with optional bounds.
type Integer struct {
	Minimum     *float64
	Maximum     *float64
	Description string
}

func (s *Integer) JSONSchema() map[string]any {
	doc := map[string]any{"type": "integer"}
	if s.Minimum != nil {
		doc["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		doc["maximum"] = *s.Maximum
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *Integer) Validate(value any) error {
	num, ok := asFloat(value)
	if !ok {
		return ValidationErrors{{Message: fmt.Sprintf("expected integer, got %T", value)}}
	}
	if num != float64(int64(num)) {
		return ValidationErrors{{Message: "expected integer, got decimal number"}}
	}
	return checkBounds(num, s.Minimum, s.Maximum)
}

// Boolean validates JSON booleans.
type Boolean struct {
	Description string
}

func (s *Boolean) JSONSchema() map[string]any {
	doc := map[string]any{"type": "boolean"}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *Boolean) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return ValidationErrors{{Message: fmt.Sprintf("expected boolean, got %T", value)}}
	}
	return nil
}

// Enum validates membership in a fixed value set.
type Enum struct {
	Values      []any
	Description string
}

func (s *Enum) JSONSchema() map[string]any {
	doc := map[string]any{"enum": s.Values}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *Enum) Validate(value any) error {
	for _, v := range s.Values {
		if reflect.DeepEqual(v, value) {
			return nil
		}
	}
	return ValidationErrors{{Message: fmt.Sprintf("value must be one of: %v", s.Values)}}
}

// Optional wraps a schema and additionally accepts null.
type Optional struct {
	Elem Schema
}

func (s *Optional) JSONSchema() map[string]any {
	return s.Elem.JSONSchema()
}

func (s *Optional) Validate(value any) error {
	if value == nil {
		return nil
	}
	return s.Elem.Validate(value)
}

// Union accepts a value matching any of its variants.
type Union struct {
	Variants []Schema
}

func (s *Union) JSONSchema() map[string]any {
	anyOf := make([]any, 0, len(s.Variants))
	for _, v := range s.Variants {
		anyOf = append(anyOf, v.JSONSchema())
	}
	return map[string]any{"anyOf": anyOf}
}

func (s *Union) Validate(value any) error {
	for _, v := range s.Variants {
		if v.Validate(value) == nil {
			return nil
		}
	}
	return ValidationErrors{{Message: "value matches none of the expected types"}}
}

// Array validates JSON arrays with homogeneous items.
type Array struct {
	Items       Schema
	Description string
}

func (s *Array) JSONSchema() map[string]any {
	doc := map[string]any{"type": "array"}
	if s.Items != nil {
		doc["items"] = s.Items.JSONSchema()
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

func (s *Array) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return ValidationErrors{{Message: fmt.Sprintf("expected array, got %T", value)}}
	}
	if s.Items == nil {
		return nil
	}

	var errs ValidationErrors
	for i := 0; i < rv.Len(); i++ {
		validateChild(s.Items, fmt.Sprintf("[%d]", i), rv.Index(i).Interface(), &errs)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateChild validates a nested value and prefixes any reported paths.
func validateChild(s Schema, path string, value any, errs *ValidationErrors) {
	err := s.Validate(value)
	if err == nil {
		return
	}

	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			*errs = append(*errs, ve.prefixed(path))
		}
		return
	}
	*errs = append(*errs, &ValidationError{Path: path, Message: err.Error()})
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func checkBounds(num float64, minimum, maximum *float64) error {
	var errs ValidationErrors
	if minimum != nil && num < *minimum {
		errs = append(errs, &ValidationError{Message: fmt.Sprintf("value %v is less than minimum %v", num, *minimum)})
	}
	if maximum != nil && num > *maximum {
		errs = append(errs, &ValidationError{Message: fmt.Sprintf("value %v is greater than maximum %v", num, *maximum)})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
