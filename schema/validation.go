package schema

import (
	"fmt"
	"strings"
)

// ValidationError describes one violated constraint.
type ValidationError struct {
	Path    string // JSON path to the invalid field (e.g. "user.email")
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// prefixed returns a copy of the error with path prepended to its path.
func (e *ValidationError) prefixed(path string) *ValidationError {
	return &ValidationError{
		Path:    joinPath(path, e.Path),
		Message: e.Message,
	}
}

// ValidationErrors is the full set of constraint violations for one value.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range e {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Issue is the wire form of a validation error, carried in the data field of
// an invalid-params response.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Issues converts the error set to its wire form.
func (e ValidationErrors) Issues() []Issue {
	issues := make([]Issue, 0, len(e))
	for _, err := range e {
		issues = append(issues, Issue{Path: err.Path, Message: err.Message})
	}
	return issues
}

func joinPath(base, field string) string {
	switch {
	case base == "":
		return field
	case field == "":
		return base
	case strings.HasPrefix(field, "["):
		return base + field
	default:
		return base + "." + field
	}
}
