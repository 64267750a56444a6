package validation

import (
	"strings"

	"github.com/erraggy/rulezod/internal/naming"
	"github.com/erraggy/rulezod/rules"
)

// TypeTag is the inferred semantic type of a field.
type TypeTag string

// Type tags produced by inference and tree resolution.
const (
	TypeString   TypeTag = "string"
	TypeNumber   TypeTag = "number"
	TypeBoolean  TypeTag = "boolean"
	TypeArray    TypeTag = "array"
	TypeObject   TypeTag = "object"
	TypeEmail    TypeTag = "email"
	TypeURL      TypeTag = "url"
	TypeUUID     TypeTag = "uuid"
	TypeFile     TypeTag = "file"
	TypePassword TypeTag = "password"

	enumPrefix = "enum:"
)

// EnumType returns the enum tag for values.
func EnumType(values []string) TypeTag {
	return TypeTag(enumPrefix + strings.Join(values, ","))
}

// IsEnum reports whether the tag is an enum tag.
func (t TypeTag) IsEnum() bool {
	return strings.HasPrefix(string(t), enumPrefix)
}

// EnumValues returns the literal values of an enum tag.
func (t TypeTag) EnumValues() []string {
	if !t.IsEnum() {
		return nil
	}
	return strings.Split(strings.TrimPrefix(string(t), enumPrefix), ",")
}

// IsStringLike reports whether values of this type are strings at runtime.
func (t TypeTag) IsStringLike() bool {
	switch t {
	case TypeString, TypeEmail, TypeURL, TypeUUID, TypePassword:
		return true
	}
	return t.IsEnum()
}

// rule categories, checked in priority order
var (
	numberRules = set("integer", "numeric", "decimal", "digits", "digits_between")
	arrayRules  = set("array", "list")
	dateRules   = set("date", "date_format", "date_equals", "before", "after", "before_or_equal", "after_or_equal")
	fileRules   = set("file", "image", "mimes", "mimetypes", "extensions", "dimensions")
)

// ruleAliases maps short rule spellings onto their canonical names.
var ruleAliases = map[string]string{
	"int":  "integer",
	"bool": "boolean",
}

// NormalizeRuleName canonicalizes a rule name: PascalCase and camelCase
// become snake_case and aliases are expanded.
// Example: "Int" -> "integer", "DigitsBetween" -> "digits_between"
func NormalizeRuleName(name string) string {
	n := naming.ToSnakeCase(strings.TrimSpace(name))
	n = strings.ToLower(n)
	if alias, ok := ruleAliases[n]; ok {
		return alias
	}
	return n
}

// InferType returns the type tag of a field from its rule tokens. wildcard
// reports whether the field has a wildcard child, which always makes it an
// array unless a higher-priority category matched.
func InferType(tokens []rules.Token, wildcard bool) TypeTag {
	names := make(map[string]rules.Token, len(tokens))
	for _, t := range tokens {
		n := NormalizeRuleName(t.Name)
		if _, dup := names[n]; !dup {
			names[n] = t
		}
	}

	has := func(n string) bool {
		_, ok := names[n]
		return ok
	}
	hasAny := func(s map[string]struct{}) bool {
		for n := range names {
			if _, ok := s[n]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case has("password"):
		return TypePassword
	case has("boolean"):
		return TypeBoolean
	case hasAny(numberRules):
		return TypeNumber
	case hasAny(arrayRules) || wildcard:
		return TypeArray
	case has("email"):
		return TypeEmail
	case has("url") || has("active_url"):
		return TypeURL
	case has("uuid"):
		return TypeUUID
	case has("json"):
		return TypeString
	case hasAny(dateRules):
		return TypeString
	case hasAny(fileRules):
		return TypeFile
	}
	if in, ok := names["in"]; ok && len(nonEmpty(in.Params)) > 0 {
		return EnumType(nonEmpty(in.Params))
	}
	return TypeString
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// deferredRules compare a field with sibling values of the validated data.
// They are emitted as object-level refinements instead of field operators.
var deferredRules = set(
	"required_if", "required_unless",
	"required_with", "required_with_all",
	"required_without", "required_without_all",
	"same", "confirmed",
)

// IsDeferredRule reports whether rule is checked by an object-level
// refinement.
func IsDeferredRule(rule string) bool {
	_, ok := deferredRules[rule]
	return ok
}
