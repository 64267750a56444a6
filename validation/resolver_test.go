package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/ruletree"
)

func TestResolveFlat(t *testing.T) {
	r := NewResolver()
	set := r.Resolve("name", "required|string|max:255")

	assert.Equal(t, "name", set.Field)
	assert.Equal(t, TypeString, set.Type)
	assert.True(t, set.IsFieldRequired())
	assert.False(t, set.IsNullable())
	require.Len(t, set.Validations, 3)

	assert.Equal(t, "The name field is required.", set.Validations[0].Message)
	assert.Equal(t, "The name field must be a string.", set.Validations[1].Message)
	assert.Equal(t, "The name field must not be greater than 255 characters.", set.Validations[2].Message)
	assert.Equal(t, "255", set.Param("max", 0))
}

func TestResolveSizeMessagesFollowType(t *testing.T) {
	r := NewResolver()

	num := r.Resolve("age", "integer|min:18")
	v, ok := num.Get("min")
	require.True(t, ok)
	assert.Equal(t, "The age field must be at least 18.", v.Message)

	arr := r.Resolve("tags", "array|max:3")
	v, _ = arr.Get("max")
	assert.Equal(t, "The tags field must not have more than 3 items.", v.Message)
}

func TestResolveCustomMessages(t *testing.T) {
	r := NewResolver(WithMessages(map[string]string{
		"email.required": "We need your :attribute.",
		"max":            ":Attribute is limited to :max.",
		"min":            ":ATTRIBUTE TOO SHORT",
	}))
	set := r.Resolve("email", "required|email|max:100|min:5")

	assert.Equal(t, "We need your email.", set.Validations[0].Message)
	assert.Equal(t, "The email field must be a valid email address.", set.Validations[1].Message)
	assert.Equal(t, "Email is limited to 100.", set.Validations[2].Message)
	assert.Equal(t, "EMAIL TOO SHORT", set.Validations[3].Message)
}

func TestResolveUnknownRuleHasNoMessage(t *testing.T) {
	var collected issues.Collector
	r := NewResolver(WithIssues(&collected), WithScope("UserSchema"))
	set := r.Resolve("code", "required|shouty_case")

	require.Len(t, set.Validations, 2)
	assert.Empty(t, set.Validations[1].Message)
	assert.False(t, set.Validations[1].HasMessage())

	list := collected.Issues()
	require.Len(t, list, 1)
	assert.Equal(t, "UserSchema.code", list[0].Path)
	assert.Equal(t, "shouty_case", list[0].Rule)
	assert.Equal(t, severity.SeverityInfo, list[0].Severity)
}

func TestResolveMarkerRulesAreSilent(t *testing.T) {
	var collected issues.Collector
	r := NewResolver(WithIssues(&collected))
	set := r.Resolve("nickname", "sometimes|nullable|string")

	assert.True(t, set.IsNullable())
	assert.Empty(t, set.Validations[0].Message)
	assert.Empty(t, collected.Issues())
}

func TestResolveJoinsMultipartMessages(t *testing.T) {
	oracle := OracleFunc(func(ctx MessageContext) ([]string, error) {
		if ctx.Rule == "broken" {
			return nil, errors.New("boom")
		}
		return []string{"First part.", "Second part."}, nil
	})
	r := NewResolver(WithOracle(oracle))
	set := r.Resolve("title", "required|broken")

	assert.Equal(t, "First part. Second part.", set.Validations[0].Message)
	assert.Empty(t, set.Validations[1].Message)
}

func TestResolveTreeNested(t *testing.T) {
	root := ruletree.GroupMap(map[string]string{
		"items":         "array",
		"items.*.name":  "required|string",
		"items.*.price": "required|numeric",
		"tags.*":        "string|max:50",
		"address.city":  "required|string",
	})
	r := NewResolver()

	items := r.ResolveTree("items", root.Child("items"))
	assert.Equal(t, TypeArray, items.Type)
	require.NotNil(t, items.Items)
	assert.Equal(t, TypeObject, items.Items.Type)
	require.Len(t, items.Items.Children, 2)
	assert.Equal(t, "items.*.price", items.Items.Child("price").Path)
	assert.Equal(t, TypeNumber, items.Items.Child("price").Type)

	tags := r.ResolveTree("tags", root.Child("tags"))
	assert.Equal(t, TypeArray, tags.Type)
	assert.Empty(t, tags.Validations)
	require.NotNil(t, tags.Items)
	assert.Equal(t, TypeString, tags.Items.Type)
	assert.Equal(t, "50", tags.Items.Param("max", 0))

	address := r.ResolveTree("address", root.Child("address"))
	assert.Equal(t, TypeObject, address.Type)
	assert.True(t, address.Child("city").IsFieldRequired())
}

func TestResolveAllOrder(t *testing.T) {
	r := NewResolver()
	sets := r.ResolveAll([]ruletree.Entry{
		{Path: "name", Rules: "required|string"},
		{Path: "email", Rules: "required|email"},
	})
	require.Len(t, sets, 2)
	assert.Equal(t, "name", sets[0].Field)
	assert.Equal(t, TypeEmail, sets[1].Type)
	assert.Equal(t, "The email field is required.", sets[1].Validations[0].Message)
}

func TestWalk(t *testing.T) {
	root := ruletree.GroupMap(map[string]string{"items.*.name": "string"})
	set := NewResolver().ResolveTree("items", root.Child("items"))

	var paths []string
	set.Walk(func(s *ResolvedValidationSet) { paths = append(paths, s.Path) })
	assert.Equal(t, []string{"items", "items.*", "items.*.name"}, paths)
}

func TestCatalogOracle(t *testing.T) {
	o := NewCatalogOracle(language.German)
	assert.Equal(t, language.German, o.Language())

	parts, err := o.Message(MessageContext{Field: "first_name", Rule: "required"})
	require.NoError(t, err)
	assert.Equal(t, []string{"The first name field is required."}, parts)

	require.NoError(t, o.Set(language.German, "required", "Das Feld %[1]s ist erforderlich."))
	parts, err = o.Message(MessageContext{Field: "first_name", Rule: "required"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Das Feld first name ist erforderlich."}, parts)

	parts, err = o.Message(MessageContext{
		Field:  "type_id",
		Rule:   "required_if",
		Params: []string{"account_type", "business", "partner"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"The type id field is required when account type is business, partner."}, parts)

	_, err = o.Message(MessageContext{Field: "x", Rule: "nope"})
	assert.ErrorIs(t, err, ErrUnknownRule)
}
