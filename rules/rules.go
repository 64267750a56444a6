package rules

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Separator joins tokens in a normalized rule string.
const Separator = "|"

// Entry is one field path with its authored rule.
type Entry struct {
	Path string
	Rule any
}

// Map is an ordered list of field paths and their authored rules, the Go
// counterpart of a rules() method's return value.
type Map []Entry

// FromMap converts an unordered map into a Map sorted by path.
func FromMap(m map[string]any) Map {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Map, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{Path: k, Rule: m[k]})
	}
	return out
}

// Get returns the rule for path and whether it was present.
func (m Map) Get(path string) (any, bool) {
	for _, e := range m {
		if e.Path == path {
			return e.Rule, true
		}
	}
	return nil, false
}

// Paths returns the field paths in order.
func (m Map) Paths() []string {
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Path
	}
	return out
}

// Expander is implemented by rule objects that expand into rule tokens.
// Tokens may return nothing, in which case the object contributes no rule.
type Expander interface {
	Tokens() []string
}

// Normalize flattens an authored rule into its canonical "|"-joined form.
//
// Strings are split and trimmed, slices are flattened depth-first, [Expander]
// objects contribute their tokens and [fmt.Stringer] values their string
// form. Any other struct falls back to its lower-cased type name. Numbers,
// booleans, maps and nil normalize to the empty string.
func Normalize(raw any) string {
	return strings.Join(normalizeTokens(raw), Separator)
}

// NormalizeTokens is like Normalize but returns the individual tokens.
func NormalizeTokens(raw any) []string {
	return normalizeTokens(raw)
}

func normalizeTokens(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return Split(v)
	case []string:
		var out []string
		for _, s := range v {
			out = append(out, Split(s)...)
		}
		return out
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, normalizeTokens(item)...)
		}
		return out
	case Expander:
		var out []string
		for _, t := range v.Tokens() {
			out = append(out, Split(t)...)
		}
		return out
	case fmt.Stringer:
		return Split(v.String())
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var out []string
		for i := 0; i < rv.Len(); i++ {
			out = append(out, normalizeTokens(rv.Index(i).Interface())...)
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		if rv.Elem().Kind() == reflect.Struct {
			return []string{strings.ToLower(rv.Elem().Type().Name())}
		}
		return nil
	case reflect.Struct:
		if name := rv.Type().Name(); name != "" {
			return []string{strings.ToLower(name)}
		}
	}
	return nil
}

// Split splits a rule string into trimmed, non-empty tokens.
//
// A "regex:" or "not_regex:" token is read up to the closing delimiter of its
// pattern so that alternations such as "regex:/^(a|b)$/" stay whole.
func Split(s string) []string {
	var out []string
	for len(s) > 0 {
		s = strings.TrimLeft(s, " \t\r\n")
		if s == "" {
			break
		}
		end := tokenEnd(s)
		if tok := strings.TrimSpace(s[:end]); tok != "" {
			out = append(out, tok)
		}
		if end >= len(s) {
			break
		}
		s = s[end+1:]
	}
	return out
}

// tokenEnd returns the index of the separator ending the first token of s,
// or len(s) when the token runs to the end.
func tokenEnd(s string) int {
	for _, prefix := range []string{"regex:", "not_regex:"} {
		if !strings.HasPrefix(s, prefix) || len(s) <= len(prefix) {
			continue
		}
		delim := s[len(prefix)]
		if isPatternDelimiter(delim) {
			closing := closingDelimiter(s, len(prefix)+1, delim)
			if closing < 0 {
				return len(s)
			}
			if idx := strings.Index(s[closing:], Separator); idx >= 0 {
				return closing + idx
			}
			return len(s)
		}
	}
	if idx := strings.Index(s, Separator); idx >= 0 {
		return idx
	}
	return len(s)
}

func isPatternDelimiter(c byte) bool {
	switch c {
	case '/', '#', '~', '!', '%', '@', '+':
		return true
	}
	return false
}

// closingDelimiter finds the first unescaped delim at or after start.
func closingDelimiter(s string, start int, delim byte) int {
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case delim:
			return i
		}
	}
	return -1
}

// Join joins tokens into a normalized rule string.
func Join(tokens []string) string {
	return strings.Join(tokens, Separator)
}

// Merge appends the tokens of b to a, skipping tokens already present in a.
func Merge(a, b string) string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range append(Split(a), Split(b)...) {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return Join(out)
}

// Stringify renders a comparison value the way it appears in a rule
// parameter: booleans as "true"/"false", nil as "null".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func stringifyAll(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Stringify(v)
	}
	return out
}
