// Package uritemplate compiles RFC 6570 URI template patterns into matchers
// that extract named parameters from concrete URIs.
//
// The supported subset covers level-3 expressions with the operators
// {var} {+var} {#var} {.var} {/var} {;var} {?var} {&var}, multiple
// variables per expression, the explode modifier (*), and the prefix
// modifier (:N). Matching is structural: a compiled template either matches
// a URI in full and yields the captured variables, or it does not match.
// There is no error result from matching; callers treat a non-match as a
// lookup miss.
package uritemplate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// operator describes how one expression kind expands and captures.
type operator struct {
	prefix    string // literal before the first variable
	separator string // literal between variables of the same expression
	capture   string // regex class for a non-exploded capture
	named     bool   // captures carry a name=value form
}

var operators = map[byte]operator{
	0:   {prefix: "", separator: ",", capture: `[^,]+`},
	'+': {prefix: "", separator: ",", capture: `[^,]+`},
	'#': {prefix: "#", separator: ",", capture: `[^,]+`},
	'.': {prefix: ".", separator: ".", capture: `[^/.]+`},
	'/': {prefix: "/", separator: "/", capture: `[^/]+`},
	';': {prefix: ";", separator: ";", capture: `[^;]+`, named: true},
	'?': {prefix: "?", separator: "&", capture: `[^&]+`, named: true},
	'&': {prefix: "&", separator: "&", capture: `[^&]+`, named: true},
}

// variable is one captured variable of a compiled template.
type variable struct {
	name    string
	explode bool
	op      operator
}

// Template is a compiled URI template pattern.
type Template struct {
	raw  string
	re   *regexp.Regexp
	vars []variable
}

// Compile parses a template string and builds its matcher.
func Compile(pattern string) (*Template, error) {
	t := &Template{raw: pattern}

	var re strings.Builder
	re.WriteString("^")

	rest := pattern
	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			re.WriteString(regexp.QuoteMeta(rest))
			break
		}
		re.WriteString(regexp.QuoteMeta(rest[:open]))

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("uritemplate: unclosed expression in %q", pattern)
		}
		expr := rest[open+1 : open+end]
		rest = rest[open+end+1:]

		if err := t.compileExpression(expr, &re); err != nil {
			return nil, err
		}
	}
	re.WriteString("$")

	compiled, err := regexp.Compile(re.String())
	if err != nil {
		return nil, fmt.Errorf("uritemplate: %w", err)
	}
	t.re = compiled
	return t, nil
}

// MustCompile is like Compile but panics on error, for use with template
// literals known to be valid.
func MustCompile(pattern string) *Template {
	t, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) compileExpression(expr string, re *strings.Builder) error {
	if expr == "" {
		return fmt.Errorf("uritemplate: empty expression in %q", t.raw)
	}

	op, hasOp := operators[expr[0]]
	if hasOp {
		expr = expr[1:]
	} else {
		op = operators[0]
	}
	if expr == "" {
		return fmt.Errorf("uritemplate: expression with no variables in %q", t.raw)
	}

	for i, spec := range strings.Split(expr, ",") {
		name, explode, err := parseVarSpec(spec)
		if err != nil {
			return fmt.Errorf("uritemplate: %w in %q", err, t.raw)
		}

		if i == 0 {
			re.WriteString(regexp.QuoteMeta(op.prefix))
		} else {
			re.WriteString(regexp.QuoteMeta(op.separator))
		}
		if explode {
			re.WriteString("(.+)")
		} else {
			re.WriteString("(" + op.capture + ")")
		}

		t.vars = append(t.vars, variable{name: name, explode: explode, op: op})
	}
	return nil
}

// parseVarSpec splits a variable spec into its name and explode flag,
// discarding any prefix-length modifier.
func parseVarSpec(spec string) (name string, explode bool, err error) {
	name = spec
	if strings.HasSuffix(name, "*") {
		explode = true
		name = name[:len(name)-1]
	}
	if colon := strings.IndexByte(name, ':'); colon >= 0 {
		// Prefix length limits expansion, not matching; only the name is kept.
		name = name[:colon]
	}
	if name == "" {
		return "", false, fmt.Errorf("empty variable name")
	}
	return name, explode, nil
}

// Raw returns the original template string.
func (t *Template) Raw() string {
	return t.raw
}

// Names returns the variable names in template order.
func (t *Template) Names() []string {
	names := make([]string, 0, len(t.vars))
	for _, v := range t.vars {
		names = append(names, v.name)
	}
	return names
}

// Match matches a concrete URI against the template. On success it returns
// the decoded variable captures; otherwise ok is false.
func (t *Template) Match(uri string) (Values, bool) {
	m := t.re.FindStringSubmatch(uri)
	if m == nil {
		return nil, false
	}

	values := make(Values, len(t.vars))
	for i, v := range t.vars {
		raw := m[i+1]
		if v.explode {
			values[v.name] = ListValue(decodePieces(strings.Split(raw, v.op.separator), v.op.named)...)
		} else {
			values[v.name] = StringValue(decodePiece(raw, v.op.named))
		}
	}
	return values, true
}

func decodePieces(pieces []string, named bool) []string {
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, decodePiece(p, named))
	}
	return out
}

// decodePiece percent-decodes one capture. For name=value operators the key
// is assumed to equal the variable name and is discarded without checking.
func decodePiece(piece string, named bool) string {
	if named {
		if eq := strings.IndexByte(piece, '='); eq >= 0 {
			piece = piece[eq+1:]
		}
	}
	decoded, err := url.PathUnescape(piece)
	if err != nil {
		return piece
	}
	return decoded
}
