// Package jsutil renders Go values as JavaScript source literals.
package jsutil

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/erraggy/rulezod/internal/naming"
)

// Quote returns s as a double-quoted JavaScript string literal.
func Quote(s string) string {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		// strings always encode
		return `""`
	}
	return string(b)
}

// List returns values as a JavaScript array literal of strings.
func List(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Key returns name as an object literal key, quoting it when it is not a
// valid identifier.
func Key(name string) string {
	if naming.IsIdentifier(name) {
		return name
	}
	return Quote(name)
}

// Member returns the property access of name on expr. optional selects the
// optional chaining form.
func Member(expr, name string, optional bool) string {
	if naming.IsIdentifier(name) {
		if optional {
			return expr + "?." + name
		}
		return expr + "." + name
	}
	if optional {
		return expr + "?.[" + Quote(name) + "]"
	}
	return expr + "[" + Quote(name) + "]"
}

// Accessor returns a null-safe access of the dotted path on root, e.g.
// data.address?.city.
func Accessor(root, path string) string {
	expr := root
	for i, seg := range strings.Split(path, ".") {
		expr = Member(expr, seg, i > 0)
	}
	return expr
}
