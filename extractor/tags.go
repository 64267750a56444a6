package extractor

import (
	"reflect"
	"slices"
	"strings"
)

// parseJSONTag splits a json struct tag into its name and options.
func parseJSONTag(tag string) (string, []string) {
	name, rest, found := strings.Cut(tag, ",")
	if !found {
		return name, nil
	}
	return name, strings.Split(rest, ",")
}

// hasOmitempty reports whether the tag options make a property optional.
func hasOmitempty(opts []string) bool {
	return slices.Contains(opts, "omitempty") || slices.Contains(opts, "omitzero")
}

// parseSchemaTag reads a schema struct tag such as
// `schema:"optional,inherit=UserData.email"`. Bare keys map to "true".
func parseSchemaTag(tag string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(strings.TrimSpace(part), "=")
		key = strings.TrimSpace(key)
		switch {
		case key == "":
			continue
		case hasValue:
			out[key] = strings.TrimSpace(value)
		default:
			out[key] = "true"
		}
	}
	return out
}

// parseInherit splits "Class.property" on the last dot.
func parseInherit(value string) (*Inherit, bool) {
	idx := strings.LastIndex(value, ".")
	if idx <= 0 || idx == len(value)-1 {
		return nil, false
	}
	return &Inherit{Class: value[:idx], Property: value[idx+1:]}, true
}

// fieldName returns the property name of a struct field: the json name when
// present, the Go field name otherwise. The second result is false for
// fields excluded with json:"-".
func fieldName(field reflect.StructField) (string, []string, bool) {
	name, opts := parseJSONTag(field.Tag.Get("json"))
	if name == "-" && len(opts) == 0 {
		return "", nil, false
	}
	if name == "" {
		name = field.Name
	}
	return name, opts, true
}
