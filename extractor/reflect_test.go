package extractor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/rzerrors"
)

type addressData struct {
	Street string  `json:"street" rules:"max:120"`
	Zip    *string `json:"zip" rules:"regex:/^\\d{5}$/"`
}

type userData struct {
	Name      string        `json:"name" schema:"name=User" rules:"max:255"`
	Email     string        `json:"email" rules:"email"`
	Nickname  string        `json:"nickname,omitempty"`
	Backup    string        `json:"backup" schema:"inherit=extractor.userData.email"`
	Tags      []string      `json:"tags" items:"max:20"`
	Scores    []float64     `json:"scores"`
	Born      time.Time     `json:"born"`
	Address   addressData   `json:"address"`
	Addresses []addressData `json:"addresses"`
	Internal  string        `json:"-"`
	hidden    string
}

type loginRequest struct{}

func (loginRequest) Rules() rules.Map {
	return rules.Map{{Path: "email", Rule: "required|email"}}
}

func (loginRequest) Messages() map[string]string {
	return map[string]string{"required": "Required."}
}

func TestFromValueRequest(t *testing.T) {
	c, err := FromValue(loginRequest{})
	require.NoError(t, err)
	assert.Equal(t, KindRequest, c.Kind)
	assert.Equal(t, "github.com/erraggy/rulezod/extractor.loginRequest", c.Name)
	require.NotNil(t, c.Rules)
	assert.Len(t, c.Rules(), 1)
	assert.Equal(t, "Required.", c.Messages["required"])
}

func TestDiscoverData(t *testing.T) {
	classes, err := Discover(&userData{})
	require.NoError(t, err)
	require.Len(t, classes, 2)

	address, user := classes[0], classes[1]
	assert.Equal(t, "github.com/erraggy/rulezod/extractor.addressData", address.Name)
	assert.Equal(t, KindData, user.Kind)
	assert.Equal(t, "User", user.Schema)

	zip, ok := address.Property("zip")
	require.True(t, ok)
	assert.True(t, zip.Nullable)
	assert.Equal(t, []any{`regex:/^\d{5}$/`}, zip.Rules)

	names := make([]string, 0, len(user.Properties))
	for _, p := range user.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name", "email", "nickname", "backup", "tags", "scores", "born", "address", "addresses"}, names)

	nickname, _ := user.Property("nickname")
	assert.True(t, nickname.Optional)

	backup, _ := user.Property("backup")
	require.NotNil(t, backup.Inherit)
	assert.Equal(t, "extractor.userData", backup.Inherit.Class)
	assert.Equal(t, "email", backup.Inherit.Property)

	tags, _ := user.Property("tags")
	assert.Equal(t, "array", tags.Type)
	assert.Equal(t, []any{"max:20"}, tags.ItemRules)

	scores, _ := user.Property("scores")
	assert.Equal(t, []any{"numeric"}, scores.ItemRules)

	born, _ := user.Property("born")
	assert.Equal(t, []any{"date"}, born.Rules)

	addr, _ := user.Property("address")
	assert.Equal(t, address.Name, addr.Data)

	addrs, _ := user.Property("addresses")
	assert.Equal(t, address.Name, addrs.CollectionOf)
}

func TestDiscoverExtractsEndToEnd(t *testing.T) {
	classes, err := Discover(addressData{})
	require.NoError(t, err)

	m, err := NewManager()
	require.NoError(t, err)
	schemas, err := m.ExtractAll(classes)
	require.NoError(t, err)
	require.Len(t, schemas, 1)

	s := schemas[0]
	assert.Equal(t, "AddressDataSchema", s.Name)
	assert.Equal(t, []string{"required", "string", "max"}, ruleNames(s.Property("street").Validations))
	assert.Equal(t, []string{"nullable", "string", "regex"}, ruleNames(s.Property("zip").Validations))
}

func TestDiscoverErrors(t *testing.T) {
	_, err := Discover(42)
	assert.True(t, errors.Is(err, rzerrors.ErrConfig))

	type badInherit struct {
		A string `schema:"inherit=nodot"`
	}
	_, err = Discover(badInherit{})
	assert.True(t, errors.Is(err, rzerrors.ErrConfig))

	_, err = Discover(nil)
	assert.True(t, errors.Is(err, rzerrors.ErrConfig))
}
