package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testManifest has one request class and two data classes.
const testManifest = `classes:
  App.Http.Requests.StoreUserRequest:
    rules:
      name: required|string|max:255
      email: nullable|email
      password: required|string|min:8|confirmed
  App.Data.UserData:
    properties:
      name: {type: string, rules: "max:255"}
      tags: {type: array, item_rules: [string]}
      address: {data: App.Data.AddressData}
  App.Data.AddressData:
    properties:
      street: {type: string}
      zip: {type: string, nullable: true}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestManifestInput_ResolveFile(t *testing.T) {
	classCache.reset()
	input := manifestInput{File: writeManifest(t, testManifest)}
	classes, err := input.resolve()
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, "App.Http.Requests.StoreUserRequest", classes[0].Name)
}

func TestManifestInput_ResolveContent(t *testing.T) {
	classCache.reset()
	input := manifestInput{Content: `{"classes": [{"name": "Login", "rules": {"email": "required|email"}}]}`}
	classes, err := input.resolve()
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Login", classes[0].Name)
}

func TestManifestInput_ResolveNoneProvided(t *testing.T) {
	_, err := manifestInput{}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content must be provided")
}

func TestManifestInput_ResolveBothProvided(t *testing.T) {
	_, err := manifestInput{File: "classes.yaml", Content: "classes: {}"}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content must be provided")
}

func TestManifestInput_ResolveFileNotFound(t *testing.T) {
	classCache.reset()
	_, err := manifestInput{File: "/nonexistent/classes.yaml"}.resolve()
	assert.Error(t, err)
	assert.Equal(t, 0, classCache.size(), "failed loads are not cached")
}

func TestManifestInput_InlineSizeLimit(t *testing.T) {
	old := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = old })

	_, err := manifestInput{Content: testManifest}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestClassCache_HitOnSameFile(t *testing.T) {
	classCache.reset()
	input := manifestInput{File: writeManifest(t, testManifest)}

	first, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, classCache.size())

	second, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, first[0], second[0], "expected same classes from cache hit")
}

func TestClassCache_MissOnModifiedFile(t *testing.T) {
	classCache.reset()
	path := writeManifest(t, "classes:\n  First:\n    rules: {a: required}\n")
	input := manifestInput{File: path}

	first, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, "First", first[0].Name)

	require.NoError(t, os.WriteFile(path, []byte("classes:\n  Second:\n    rules: {a: required}\n"), 0644))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	second, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, "Second", second[0].Name)
}

func TestClassCache_ContentHash(t *testing.T) {
	classCache.reset()
	input := manifestInput{Content: testManifest}

	first, err := input.resolve()
	require.NoError(t, err)
	second, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, first[0], second[0])
	assert.True(t, strings.HasPrefix(makeCacheKey(input), "content:"))
}

func TestClassCache_LRUEviction(t *testing.T) {
	classCache.reset()

	var firstKey string
	for i := range 11 {
		content := fmt.Sprintf("classes:\n  Class%d:\n    rules: {a: required}\n", i)
		if i == 0 {
			firstKey = makeCacheKey(manifestInput{Content: content})
		}
		_, err := manifestInput{Content: content}.resolve()
		require.NoError(t, err)
	}

	assert.Equal(t, 10, classCache.size())
	_, ok := classCache.get(firstKey)
	assert.False(t, ok, "expected oldest entry to be evicted")
}

func TestClassCache_SweepRemovesExpired(t *testing.T) {
	classCache.reset()
	classCache.put("expired", nil, -time.Second)
	classCache.put("live", nil, time.Hour)

	classCache.sweep()
	assert.Equal(t, 1, classCache.size())
}
