package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Generate creates a schema from a Go value's type.
func Generate(v any) (Schema, error) {
	return GenerateFromType(reflect.TypeOf(v))
}

// GenerateFromType creates a schema from a reflect.Type. Struct fields are
// mapped through their json tags; jsonschema tags mark required fields and
// attach descriptions, bounds, and enum values. Pointer fields become
// Optional schemas.
func GenerateFromType(t reflect.Type) (Schema, error) {
	return generateFromType(t)
}

func generateFromType(t reflect.Type) (Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot generate schema for nil type")
	}
	if t.Kind() == reflect.Ptr {
		elem, err := generateFromType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Optional{Elem: elem}, nil
	}

	switch t.Kind() {
	case reflect.Struct:
		return generateStructSchema(t)
	case reflect.String:
		return &String{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Integer{}, nil
	case reflect.Float32, reflect.Float64:
		return &Number{}, nil
	case reflect.Bool:
		return &Boolean{}, nil
	case reflect.Slice, reflect.Array:
		items, err := generateFromType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Array{Items: items}, nil
	case reflect.Map:
		return &Object{Properties: map[string]Schema{}}, nil
	case reflect.Interface:
		return &Union{Variants: []Schema{
			&String{}, &Number{}, &Boolean{},
			&Array{}, &Object{Properties: map[string]Schema{}},
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t.Kind())
	}
}

func generateStructSchema(t reflect.Type) (Schema, error) {
	obj := &Object{Properties: make(map[string]Schema)}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
		}

		fieldSchema, err := generateFromType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		fieldSchema = applyTag(field.Tag.Get("jsonschema"), fieldSchema, obj, fieldName)

		obj.Properties[fieldName] = fieldSchema
	}

	return obj, nil
}

// applyTag folds jsonschema tag options into a generated field schema.
func applyTag(tag string, s Schema, parent *Object, fieldName string) Schema {
	if tag == "" {
		return s
	}

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "required":
			parent.Required = append(parent.Required, fieldName)
		case strings.HasPrefix(part, "description="):
			s = withDescription(s, strings.TrimPrefix(part, "description="))
		case strings.HasPrefix(part, "minimum="):
			if f, err := strconv.ParseFloat(strings.TrimPrefix(part, "minimum="), 64); err == nil {
				s = withBound(s, &f, nil)
			}
		case strings.HasPrefix(part, "maximum="):
			if f, err := strconv.ParseFloat(strings.TrimPrefix(part, "maximum="), 64); err == nil {
				s = withBound(s, nil, &f)
			}
		case strings.HasPrefix(part, "enum="):
			values := strings.Split(strings.TrimPrefix(part, "enum="), "|")
			enum := &Enum{Values: make([]any, 0, len(values))}
			for _, v := range values {
				enum.Values = append(enum.Values, v)
			}
			s = enum
		}
	}
	return s
}

func withDescription(s Schema, desc string) Schema {
	switch v := s.(type) {
	case *Object:
		v.Description = desc
	case *String:
		v.Description = desc
	case *Number:
		v.Description = desc
	case *Integer:
		v.Description = desc
	case *Boolean:
		v.Description = desc
	case *Enum:
		v.Description = desc
	case *Array:
		v.Description = desc
	case *Optional:
		v.Elem = withDescription(v.Elem, desc)
	}
	return s
}

func withBound(s Schema, minimum, maximum *float64) Schema {
	switch v := s.(type) {
	case *Number:
		if minimum != nil {
			v.Minimum = minimum
		}
		if maximum != nil {
			v.Maximum = maximum
		}
	case *Integer:
		if minimum != nil {
			v.Minimum = minimum
		}
		if maximum != nil {
			v.Maximum = maximum
		}
	case *Optional:
		v.Elem = withBound(v.Elem, minimum, maximum)
	}
	return s
}
