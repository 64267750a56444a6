package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rulezod/internal/testutil"
)

func TestInspectRequestClass(t *testing.T) {
	result, err := InspectWithOptions(WithClasses(testutil.NewRequestClass()))
	require.NoError(t, err)
	require.Len(t, result.Schemas, 1)

	s := result.Schema("StoreUserRequestSchema")
	require.NotNil(t, s)
	assert.Equal(t, "request", s.Kind)
	assert.Equal(t, "App.Http.Requests.StoreUserRequest", s.Class)

	name := s.Field("name")
	require.NotNil(t, name)
	assert.Equal(t, "string", name.Type)
	assert.True(t, name.Required)
	assert.False(t, name.Nullable)
	require.Len(t, name.Rules, 3)
	assert.Equal(t, "max", name.Rules[2].Rule)
	assert.Equal(t, []string{"255"}, name.Rules[2].Params)
	assert.NotEmpty(t, name.Rules[0].Message)

	email := s.Field("email")
	require.NotNil(t, email)
	assert.True(t, email.Nullable)
	assert.False(t, email.Required)

	password := s.Field("password")
	require.NotNil(t, password)
	var deferred []string
	for _, r := range password.Rules {
		if r.Deferred {
			deferred = append(deferred, r.Rule)
		}
	}
	assert.Equal(t, []string{"confirmed"}, deferred)
}

func TestInspectDataClassesWalksNestedFields(t *testing.T) {
	result, err := InspectWithOptions(WithClasses(testutil.NewDataClasses()...))
	require.NoError(t, err)

	user := result.Schema("UserDataSchema")
	require.NotNil(t, user)
	assert.Equal(t, "data", user.Kind)
	assert.Equal(t, []string{"AddressDataSchema"}, user.Dependencies)

	tags := user.Field("tags")
	require.NotNil(t, tags)
	assert.Equal(t, "array", tags.Type)
	items := user.Field("tags.*")
	require.NotNil(t, items, "array elements are listed after their array")
	assert.Equal(t, "string", items.Type)

	address := user.Field("address")
	require.NotNil(t, address)
	assert.Equal(t, "AddressDataSchema", address.Ref)

	assert.Nil(t, result.Schema("MissingSchema"))
	assert.Nil(t, user.Field("missing"))
}

func TestInspectPropagatesErrors(t *testing.T) {
	_, err := InspectWithOptions()
	require.Error(t, err)
}

func TestSchemaReportString(t *testing.T) {
	rep := SchemaReport{
		Name:  "UserDataSchema",
		Class: "UserData",
		Kind:  "data",
		Fields: []FieldReport{
			{Path: "name", Type: "string"},
			{Path: "address", Type: "object", Ref: "AddressDataSchema"},
		},
	}
	assert.Equal(t, "UserDataSchema (UserData, data)\n  name: string\n  address: object -> AddressDataSchema\n", rep.String())
}
