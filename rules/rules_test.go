package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customRule struct{}

type namedRule struct{ name string }

func (n namedRule) String() string { return n.name }

func TestNormalize(t *testing.T) {
	truthy := func() bool { return true }
	falsy := func() bool { return false }

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{name: "plain string", raw: "required|string|max:255", want: "required|string|max:255"},
		{name: "trims and drops empties", raw: " required || string | ", want: "required|string"},
		{name: "string slice", raw: []string{"required", "email"}, want: "required|email"},
		{name: "nested slices depth first", raw: []any{"required", []any{"string", []string{"min:2|max:5"}}}, want: "required|string|min:2|max:5"},
		{name: "required when true", raw: []any{RequiredWhen(truthy), "string"}, want: "required|string"},
		{name: "required when false", raw: []any{RequiredWhen(falsy), "string"}, want: "string"},
		{name: "when else", raw: WhenElse(falsy, "required", "nullable"), want: "nullable"},
		{name: "required if", raw: RequiredIf{Field: "type", Values: []any{"business", true, nil}}, want: "required_if:type,business,true,null"},
		{name: "required unless", raw: RequiredUnless{Field: "role", Values: []any{"admin"}}, want: "required_unless:role,admin"},
		{name: "required with", raw: RequiredWith{Fields: []string{"a", "b"}}, want: "required_with:a,b"},
		{name: "in", raw: In{Values: []any{"active", "inactive"}}, want: "in:active,inactive"},
		{name: "not in", raw: NotIn{Values: []any{1, 2}}, want: "not_in:1,2"},
		{name: "enum", raw: Enum{Name: "Status", Values: []string{"draft", "published"}}, want: "in:draft,published"},
		{name: "stringer", raw: namedRule{name: "uppercase"}, want: "uppercase"},
		{name: "unknown struct", raw: customRule{}, want: "customrule"},
		{name: "unknown pointer", raw: &customRule{}, want: "customrule"},
		{name: "integer", raw: 42, want: ""},
		{name: "boolean", raw: true, want: ""},
		{name: "nil", raw: nil, want: ""},
		{name: "map", raw: map[string]string{"a": "b"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{
		"required|string|max:255",
		[]any{"required", NewPassword(8).Letters().Symbols()},
		"regex:/^(a|b)$/|required",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestPasswordOrder(t *testing.T) {
	p := NewPassword(12).Symbols().MixedCase().Numbers().Uncompromised(3).Letters()
	assert.Equal(t,
		"password|min:12|symbols|mixed_case|numbers|uncompromised:3|letters",
		Normalize(p))

	// repeated constraints are recorded once
	p = NewPassword(0).Numbers().Numbers()
	assert.Equal(t, "password|numbers", Normalize(p))
}

func TestSplitRegex(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"regex:/^(a|b)$/|required", []string{"regex:/^(a|b)$/", "required"}},
		{"required|not_regex:#x|y#i|max:3", []string{"required", "not_regex:#x|y#i", "max:3"}},
		{`regex:/a\/|b/`, []string{`regex:/a\/|b/`}},
		{"regex:/unterminated|x", []string{"regex:/unterminated|x"}},
		{"regex_like|x", []string{"regex_like", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	toks := Parse("required|digits_between: 2 , 4|regex:/^[a,b]+$/|nullable")
	require.Len(t, toks, 4)

	assert.Equal(t, Token{Name: "required"}, toks[0])
	assert.Equal(t, Token{Name: "digits_between", Params: []string{"2", "4"}}, toks[1])
	assert.Equal(t, Token{Name: "regex", Params: []string{"/^[a,b]+$/"}}, toks[2])
	assert.Equal(t, "nullable", toks[3].String())

	assert.Equal(t, "digits_between:2,4", toks[1].String())
	assert.Equal(t, "4", toks[1].Param(1))
	assert.Equal(t, "", toks[1].Param(2))
}

func TestMerge(t *testing.T) {
	assert.Equal(t, "array|required|min:1", Merge("array|required", "required|min:1"))
	assert.Equal(t, "string", Merge("", "string"))
}

func TestMap(t *testing.T) {
	m := FromMap(map[string]any{"b": "string", "a": "required"})
	assert.Equal(t, []string{"a", "b"}, m.Paths())

	rule, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "string", rule)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "null", Stringify(nil))
	assert.Equal(t, "false", Stringify(false))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "7", Stringify(int64(7)))
	assert.Equal(t, "x", Stringify("x"))
}
