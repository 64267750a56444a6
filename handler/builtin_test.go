package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/ruletree"
	"github.com/erraggy/rulezod/validation"
)

func resolve(field, ruleString string) *validation.ResolvedValidationSet {
	return validation.NewResolver().Resolve(field, ruleString)
}

func resolveTree(t *testing.T, entries map[string]string) []*validation.ResolvedValidationSet {
	t.Helper()
	root := ruletree.GroupMap(entries)
	r := validation.NewResolver()
	var out []*validation.ResolvedValidationSet
	for _, child := range root.ChildList() {
		out = append(out, r.ResolveTree(child.Name, child))
	}
	return out
}

func newTestRegistry(t *testing.T, c *issues.Collector) *Registry {
	t.Helper()
	reg, err := NewRegistry(WithIssues(c))
	require.NoError(t, err)
	return reg
}

func TestStringHandler(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("name", "required|string|max:255"))
	require.NoError(t, err)

	assert.Equal(t, builder.KindString, n.Kind)
	assert.Equal(t, "The name field is required.", n.RequiredMessage)
	assert.Equal(t, "The name field must be a string.", n.TypeMessage)

	minOp, ok := n.Op("min")
	require.True(t, ok)
	assert.Equal(t, []builder.Arg{builder.Int(1)}, minOp.Args)
	assert.Equal(t, n.RequiredMessage, minOp.Message)

	maxOp, ok := n.Op("max")
	require.True(t, ok)
	assert.Equal(t, []builder.Arg{builder.Num("255")}, maxOp.Args)
	assert.Equal(t, "The name field must not be greater than 255 characters.", maxOp.Message)
}

func TestStringHandlerOptionalHasNoMinimum(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("nickname", "string|nullable"))
	require.NoError(t, err)
	assert.False(t, n.HasOp("min"))
	assert.True(t, n.Nullable)
}

func TestEmailHandler(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("email", "required|email"))
	require.NoError(t, err)

	assert.Equal(t, builder.KindString, n.Kind)
	emailOp, ok := n.Op("email")
	require.True(t, ok)
	assert.Equal(t, "The email field must be a valid email address.", emailOp.Message)
	assert.NotEmpty(t, n.RequiredMessage)
}

func TestNumberHandler(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("age", "required|integer|min:0|max:100"))
	require.NoError(t, err)

	assert.Equal(t, builder.KindNumber, n.Kind)
	assert.True(t, n.HasOp("int"))
	minOp, _ := n.Op("min")
	assert.Equal(t, []builder.Arg{builder.Num("0")}, minOp.Args)
	assert.Contains(t, minOp.Message, "at least 0")
}

func TestNumberHandlerBetween(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("score", "numeric|between:1,10"))
	require.NoError(t, err)

	lo, _ := n.Op("min")
	hi, _ := n.Op("max")
	assert.Equal(t, "1", lo.Args[0].Value)
	assert.Equal(t, "10", hi.Args[0].Value)
	assert.False(t, n.HasOp("int"))
}

func TestBooleanHandler(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("terms", "boolean|accepted"))
	require.NoError(t, err)
	assert.Equal(t, builder.KindBoolean, n.Kind)
	assert.True(t, n.HasOp("refine"))
}

func TestEnumHandler(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("status", "required|in:active,inactive"))
	require.NoError(t, err)
	assert.Equal(t, builder.KindEnum, n.Kind)
	assert.Equal(t, []string{"active", "inactive"}, n.Values)
	assert.NotEmpty(t, n.TypeMessage)
}

func TestPasswordHandler(t *testing.T) {
	c := &issues.Collector{}
	reg := newTestRegistry(t, c)
	n, err := reg.Build(resolve("password", "required|password|min:8|letters|mixed_case|numbers|uncompromised:3"))
	require.NoError(t, err)

	assert.Equal(t, builder.KindString, n.Kind)
	var regexes int
	for _, op := range n.Ops {
		if op.Name == "regex" {
			regexes++
		}
	}
	assert.Equal(t, 3, regexes)

	list := c.Issues()
	require.Len(t, list, 1)
	assert.Equal(t, "uncompromised", list[0].Rule)
}

func TestFileHandler(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("avatar", "file|image|mimes:jpg,png|max:2048"))
	require.NoError(t, err)
	assert.Equal(t, builder.KindFile, n.Kind)

	var predicates []string
	for _, op := range n.Ops {
		require.Equal(t, "refine", op.Name)
		predicates = append(predicates, op.Args[0].Value)
	}
	assert.Contains(t, predicates, "(file) => file.size <= 2048 * 1024")
	assert.Contains(t, predicates, `(file) => ["jpg", "png"].includes(file.name.split('.').pop()?.toLowerCase() ?? '')`)
}

func TestArrayOfScalars(t *testing.T) {
	reg := newTestRegistry(t, nil)
	sets := resolveTree(t, map[string]string{"tags.*": "string|max:50"})
	require.Len(t, sets, 1)

	n, err := reg.Build(sets[0])
	require.NoError(t, err)
	assert.Equal(t, builder.KindArray, n.Kind)
	require.NotNil(t, n.Items)
	assert.Equal(t, builder.KindString, n.Items.Kind)
	maxOp, ok := n.Items.Op("max")
	require.True(t, ok)
	assert.Equal(t, "50", maxOp.Args[0].Value)
}

func TestArrayOfObjects(t *testing.T) {
	reg := newTestRegistry(t, nil)
	sets := resolveTree(t, map[string]string{
		"items":         "required|array|min:1",
		"items.*.name":  "required|string",
		"items.*.price": "numeric",
	})
	n, err := reg.Build(sets[0])
	require.NoError(t, err)

	assert.Equal(t, builder.KindArray, n.Kind)
	assert.True(t, n.HasOp("min"))
	require.NotNil(t, n.Items)
	assert.Equal(t, builder.KindObject, n.Items.Kind)

	name := n.Items.Field("name")
	require.NotNil(t, name)
	assert.False(t, name.Optional)
	price := n.Items.Field("price")
	require.NotNil(t, price)
	assert.True(t, price.Optional)
	assert.Equal(t, builder.KindNumber, price.Kind)
}

func TestThreeLevelNesting(t *testing.T) {
	reg := newTestRegistry(t, nil)
	sets := resolveTree(t, map[string]string{
		"users":                             "array",
		"users.*.profiles":                  "array",
		"users.*.profiles.*.settings":       "array",
		"users.*.profiles.*.settings.*.key": "required|string",
	})
	n, err := reg.Build(sets[0])
	require.NoError(t, err)

	profiles := n.Items.Field("profiles")
	require.NotNil(t, profiles)
	settings := profiles.Items.Field("settings")
	require.NotNil(t, settings)
	key := settings.Items.Field("key")
	require.NotNil(t, key)
	assert.Equal(t, builder.KindString, key.Kind)
	assert.False(t, key.Optional)
	assert.NotEmpty(t, key.RequiredMessage)
}

func TestNestedObjectWithoutWildcard(t *testing.T) {
	reg := newTestRegistry(t, nil)
	sets := resolveTree(t, map[string]string{
		"address.city": "required|string",
		"address.zip":  "string",
	})
	n, err := reg.Build(sets[0])
	require.NoError(t, err)
	assert.Equal(t, builder.KindObject, n.Kind)
	assert.Len(t, n.Fields, 2)
}

func TestRefHandlerWinsOverType(t *testing.T) {
	reg := newTestRegistry(t, nil)
	set := resolve("address", "required|array")
	set.Ref = "AddressSchema"

	n, err := reg.Build(set)
	require.NoError(t, err)
	assert.Equal(t, builder.KindRef, n.Kind)
	assert.Equal(t, "AddressSchema", n.Ref)
}

func TestUnsupportedRuleIsSkipped(t *testing.T) {
	c := &issues.Collector{}
	reg := newTestRegistry(t, c)
	n, err := reg.Build(resolve("code", "string|exists:codes,id|max:8"))
	require.NoError(t, err)

	assert.True(t, n.HasOp("max"))
	list := c.Issues()
	require.Len(t, list, 1)
	assert.Equal(t, "exists", list[0].Rule)
	assert.Equal(t, "code", list[0].Path)
}

func TestDeferredRulesAreNotSkipped(t *testing.T) {
	c := &issues.Collector{}
	reg := newTestRegistry(t, c)
	_, err := reg.Build(resolve("phone", "string|required_if:contact,phone"))
	require.NoError(t, err)
	assert.Empty(t, c.Issues())
}

func TestStringRegexRules(t *testing.T) {
	reg := newTestRegistry(t, nil)
	n, err := reg.Build(resolve("slug", "string|regex:/^[a-z]+(-[a-z]+)*$/i|not_regex:/admin/"))
	require.NoError(t, err)

	re, ok := n.Op("regex")
	require.True(t, ok)
	assert.Equal(t, builder.Regex("/^[a-z]+(-[a-z]+)*$/i"), re.Args[0])

	ref, ok := n.Op("refine")
	require.True(t, ok)
	assert.Equal(t, "(value) => !/admin/.test(value)", ref.Args[0].Value)
}
