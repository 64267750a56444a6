package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/rulezod/rules"
)

func TestNormalizeRuleName(t *testing.T) {
	tests := map[string]string{
		"Int":           "integer",
		"int":           "integer",
		"Integer":       "integer",
		"Bool":          "boolean",
		"DigitsBetween": "digits_between",
		"required_if":   "required_if",
		"MixedCase":     "mixed_case",
		" Email ":       "email",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRuleName(in), in)
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name     string
		rules    string
		wildcard bool
		want     TypeTag
	}{
		{name: "password beats string", rules: "password|string|min:8", want: TypePassword},
		{name: "integer", rules: "integer|min:0|max:100", want: TypeNumber},
		{name: "pascal case int", rules: "Int|Min:0", want: TypeNumber},
		{name: "numeric", rules: "numeric", want: TypeNumber},
		{name: "digits between", rules: "DigitsBetween:2,4", want: TypeNumber},
		{name: "boolean beats number", rules: "bool|integer", want: TypeBoolean},
		{name: "array rule", rules: "array|min:1", want: TypeArray},
		{name: "wildcard child", rules: "required", wildcard: true, want: TypeArray},
		{name: "email", rules: "required|email", want: TypeEmail},
		{name: "url", rules: "url", want: TypeURL},
		{name: "uuid", rules: "uuid", want: TypeUUID},
		{name: "json", rules: "json", want: TypeString},
		{name: "date", rules: "date_format:Y-m-d", want: TypeString},
		{name: "file", rules: "image|max:1024", want: TypeFile},
		{name: "enum", rules: "in:active,inactive", want: EnumType([]string{"active", "inactive"})},
		{name: "empty in", rules: "in:", want: TypeString},
		{name: "default", rules: "required|max:255", want: TypeString},
		{name: "no rules", rules: "", want: TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(rules.Parse(tt.rules), tt.wildcard))
		})
	}
}

func TestEnumType(t *testing.T) {
	tag := InferType(rules.Parse("in:active,inactive"), false)
	assert.Equal(t, TypeTag("enum:active,inactive"), tag)
	assert.True(t, tag.IsEnum())
	assert.True(t, tag.IsStringLike())
	assert.Equal(t, []string{"active", "inactive"}, tag.EnumValues())
	assert.Nil(t, TypeString.EnumValues())
	assert.False(t, TypeNumber.IsStringLike())
}

func TestIsDeferredRule(t *testing.T) {
	assert.True(t, IsDeferredRule("required_if"))
	assert.True(t, IsDeferredRule("confirmed"))
	assert.False(t, IsDeferredRule("required"))
	assert.False(t, IsDeferredRule("max"))
}
