package uritemplate

import "strings"

// Value is a captured variable: a single string, or a list of strings for
// an exploded capture.
type Value struct {
	str    string
	list   []string
	isList bool
}

// StringValue wraps a single string capture.
func StringValue(s string) Value {
	return Value{str: s}
}

// ListValue wraps an exploded capture.
func ListValue(items ...string) Value {
	return Value{list: items, isList: true}
}

// IsList reports whether the value is an exploded capture.
func (v Value) IsList() bool {
	return v.isList
}

// String returns the captured string. List values are joined with commas.
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ",")
	}
	return v.str
}

// List returns the captured pieces. Single values yield a one-element list.
func (v Value) List() []string {
	if v.isList {
		return v.list
	}
	return []string{v.str}
}

// Values maps variable names to their captures.
type Values map[string]Value

// Get returns the string form of a variable, or "" if absent.
func (vs Values) Get(name string) string {
	v, ok := vs[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Flat converts the captures to a plain string map, joining lists with
// commas. Useful for handlers that only deal in scalar parameters.
func (vs Values) Flat() map[string]string {
	out := make(map[string]string, len(vs))
	for name, v := range vs {
		out[name] = v.String()
	}
	return out
}
