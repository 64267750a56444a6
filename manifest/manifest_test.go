package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/internal/testutil"
	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/rzerrors"
)

const requestYAML = `
classes:
  App.Http.Requests.StoreUserRequest:
    schema: StoreUserSchema
    rules:
      name: required|string|max:255
      role:
        - required
        - in: [admin, member]
      team:
        required_if: {field: role, value: member}
      password:
        - required
        - password: {min: 8, mixed_case: true, numbers: true, uncompromised: 3}
      age: {integer: true, min: 18, nullable: null, sometimes: false}
    messages:
      name.required: Please enter a name.
`

func normalized(t *testing.T, c *extractor.Class) map[string]string {
	t.Helper()
	require.NotNil(t, c.Rules)
	out := map[string]string{}
	for _, e := range c.Rules() {
		out[e.Path] = rules.Normalize(e.Rule)
	}
	return out
}

func TestParseRequestYAML(t *testing.T) {
	classes, err := Parse([]byte(requestYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, "App.Http.Requests.StoreUserRequest", c.Name)
	assert.Equal(t, "StoreUserSchema", c.Schema)
	assert.Equal(t, extractor.KindRequest, c.EffectiveKind())
	assert.Equal(t, []string{"name", "role", "team", "password", "age"}, c.Rules().Paths())

	assert.Equal(t, map[string]string{
		"name":     "required|string|max:255",
		"role":     "required|in:admin,member",
		"team":     "required_if:role,member",
		"password": "required|password|min:8|mixed_case|numbers|uncompromised:3",
		"age":      "integer|min:18|nullable",
	}, normalized(t, c))
	assert.Equal(t, map[string]string{"name.required": "Please enter a name."}, c.Messages)
}

func TestParseRequestJSONKeepsOrder(t *testing.T) {
	data := `{"classes": [{
		"name": "Search",
		"rules": {
			"zeta": "required",
			"alpha": ["string", {"max": 10}],
			"mid": {"required_without": ["alpha", "zeta"]},
			"pw": {"password": {"symbols": true, "min": 12, "letters": true}}
		}
	}]}`

	classes, err := Parse([]byte(data), FormatUnknown)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, []string{"zeta", "alpha", "mid", "pw"}, c.Rules().Paths())
	assert.Equal(t, map[string]string{
		"zeta":  "required",
		"alpha": "string|max:10",
		"mid":   "required_without:alpha,zeta",
		"pw":    "password|min:12|symbols|letters",
	}, normalized(t, c))
}

func TestParseDataClasses(t *testing.T) {
	data := `
classes:
  - name: App.Data.UserData
    kind: data
    properties:
      name: {type: string, rules: "max:255"}
      nickname: {type: string, optional: true, nullable: true}
      tags: {type: array, item_rules: [string, {max: 20}]}
      address: {data: App.Data.AddressData}
      addresses: {collectionOf: App.Data.AddressData}
      email: {inherit: App.Data.ContactData.email}
      phone: {inherit: {class: App.Data.ContactData, property: phone}}
      note: nullable|string
`
	classes, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, extractor.KindData, c.EffectiveKind())
	require.Len(t, c.Properties, 8)

	name, _ := c.Property("name")
	assert.Equal(t, "string", name.Type)
	assert.Equal(t, "max:255", rules.Normalize(name.Rules))

	nickname, _ := c.Property("nickname")
	assert.True(t, nickname.Optional)
	assert.True(t, nickname.Nullable)

	tags, _ := c.Property("tags")
	assert.Equal(t, "string|max:20", rules.Normalize(tags.ItemRules))

	address, _ := c.Property("address")
	assert.Equal(t, "App.Data.AddressData", address.Data)
	addresses, _ := c.Property("addresses")
	assert.Equal(t, "App.Data.AddressData", addresses.CollectionOf)

	email, _ := c.Property("email")
	assert.Equal(t, &extractor.Inherit{Class: "App.Data.ContactData", Property: "email"}, email.Inherit)
	phone, _ := c.Property("phone")
	assert.Equal(t, &extractor.Inherit{Class: "App.Data.ContactData", Property: "phone"}, phone.Inherit)

	note, _ := c.Property("note")
	assert.Equal(t, "nullable|string", rules.Normalize(note.Rules))
}

func TestParseRootList(t *testing.T) {
	classes, err := Parse([]byte("- name: A\n  rules: {x: required}\n- name: B\n  rules: {y: string}\n"), FormatYAML)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "A", classes[0].Name)
	assert.Equal(t, "B", classes[1].Name)
}

func TestRuleObjects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"required_if list", "requiredIf: [role, admin, owner]", "required_if:role,admin,owner"},
		{"required_if string", `required_if: "role,admin"`, "required_if:role,admin"},
		{"required_unless values", "required_unless: {field: active, values: [true]}", "required_unless:active,true"},
		{"required_with scalar", `required_with: "a, b"`, "required_with:a,b"},
		{"not_in", "not_in: [1, 2]", "not_in:1,2"},
		{"enum", "enum: {name: Status, values: [draft, published]}", "in:draft,published"},
		{"enum list", "enum: [a, b]", "in:a,b"},
		{"when true", "when: {condition: true, rules: required, otherwise: nullable}", "required"},
		{"when false", "when: {condition: false, rules: required, otherwise: nullable}", "nullable"},
		{"password min", "password: 10", "password|min:10"},
		{"password bare", "password: true", "password"},
		{"plain list", "between: [1, 5]", "between:1,5"},
		{"plain dropped", "sometimes: false", ""},
		{"alias", "Int: true", "integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := Parse([]byte("classes:\n  C:\n    rules:\n      f: {"+tt.yaml+"}\n"), FormatYAML)
			require.NoError(t, err)
			got, _ := classes[0].Rules().Get("f")
			assert.Equal(t, tt.want, rules.Normalize(got))
		})
	}
}

func TestLoad(t *testing.T) {
	path := testutil.WriteTempFile(t, "classes.yml", []byte(requestYAML))
	classes, err := Load(path)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	path = testutil.WriteTempJSON(t, map[string]any{
		"classes": map[string]any{"A": map[string]any{"rules": map[string]any{"x": "required"}}},
	})
	classes, err = Load(path)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "A", classes[0].Name)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("a/b.json"))
	assert.Equal(t, FormatYAML, DetectFormat("b.yaml"))
	assert.Equal(t, FormatYAML, DetectFormat("b.yml"))
	assert.Equal(t, FormatUnknown, DetectFormat("b.txt"))
	assert.Equal(t, FormatJSON, detectFormatFromContent([]byte("  \n[1]")))
	assert.Equal(t, FormatYAML, detectFormatFromContent([]byte("classes: []")))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   string
		line   int
	}{
		{"empty", "", FormatYAML, "manifest is empty", 0},
		{"missing classes", "other: 1\n", FormatYAML, "missing classes", 1},
		{"unknown class key", "classes:\n  A:\n    rulez: {}\n", FormatYAML, `unknown class key "rulez"`, 3},
		{"unknown property key", "classes:\n  A:\n    properties:\n      p: {typ: string}\n", FormatYAML, `unknown property key "typ"`, 4},
		{"bad kind", "classes:\n  A:\n    kind: model\n", FormatYAML, "kind must be request or data", 3},
		{"unnamed class", "classes:\n  - rules: {}\n", FormatYAML, "class without a name", 2},
		{"bad password", "classes:\n  A:\n    rules:\n      p: {password: {digits: true}}\n", FormatYAML, "unknown password constraint", 4},
		{"bad inherit", "classes:\n  A:\n    properties:\n      p: {inherit: nodot}\n", FormatYAML, "is not Class.property", 4},
		{"schema not scalar", "classes:\n  A:\n    schema: [x]\n", FormatYAML, "schema: expected a scalar", 3},
		{"kind not scalar", "classes:\n  A:\n    kind: {is: request}\n", FormatYAML, "kind: expected a scalar", 3},
		{"enum name not scalar", "classes:\n  A:\n    rules:\n      p: {enum: {name: [Status], values: [a]}}\n", FormatYAML, "enum name: expected a scalar", 4},
		{"inherit class not scalar", "classes:\n  A:\n    properties:\n      p: {inherit: {class: [B], property: p}}\n", FormatYAML, "inherit class: expected a scalar", 4},
		{"inherit property not scalar", "classes:\n  A:\n    properties:\n      p: {inherit: {class: B, property: {x: 1}}}\n", FormatYAML, "inherit property: expected a scalar", 4},
		{"invalid json", `{"classes": [`, FormatJSON, "cannot decode json", 0},
		{"invalid yaml", "classes: [\n", FormatYAML, "cannot decode yaml", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, rzerrors.ErrManifest))
			assert.Contains(t, err.Error(), tt.want)

			var me *rzerrors.ManifestError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.line, me.Line)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rzerrors.ErrManifest))
}
