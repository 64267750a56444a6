package testutil

import (
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rulezod/extractor"
)

func TestNewRequestClass(t *testing.T) {
	c := NewRequestClass()

	assert.Equal(t, extractor.KindRequest, c.EffectiveKind())
	require.NotNil(t, c.Rules)
	assert.Equal(t, []string{"name", "email", "password"}, c.Rules().Paths())
}

func TestNewDataClasses(t *testing.T) {
	classes := NewDataClasses()
	require.Len(t, classes, 2)

	user := classes[0]
	assert.Equal(t, extractor.KindData, user.EffectiveKind())
	address, ok := user.Property("address")
	require.True(t, ok)
	assert.Equal(t, classes[1].Name, address.Data)
}

func TestWriteTempYAML(t *testing.T) {
	path := WriteTempYAML(t, map[string]any{"classes": []string{"A"}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string][]string
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, []string{"A"}, got["classes"])
}

func TestWriteTempJSON(t *testing.T) {
	path := WriteTempJSON(t, map[string]any{"classes": []string{"A"}})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string][]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"A"}, got["classes"])
}

func TestParseArchive(t *testing.T) {
	files := ParseArchive(`fixture comment
-- a.yaml --
classes: []
-- b.ts --
export {};
`)

	assert.Equal(t, "fixture comment\n", string(files[""]))
	assert.Equal(t, "classes: []\n", string(files["a.yaml"]))
	assert.Equal(t, "export {};\n", string(files["b.ts"]))
}

func TestLoadArchive(t *testing.T) {
	path := WriteTempFile(t, "fixture.txtar", []byte("-- x --\ny\n"))
	files := LoadArchive(t, path)
	assert.Equal(t, "y\n", string(files["x"]))
}
