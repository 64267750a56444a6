package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testManifest has one request class and two data classes.
const testManifest = `classes:
  App.Http.Requests.StoreUserRequest:
    rules:
      name: required|string|max:255
      email: nullable|email
  App.Data.UserData:
    properties:
      name: {type: string}
      address: {data: App.Data.AddressData}
  App.Data.AddressData:
    properties:
      street: {type: string}
`

// captureOutput redirects the command writers to buffers for the test.
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr := stdout, stderr
	stdout, stderr = out, errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return out, errOut
}

// writeManifest writes content into a temp dir and makes it the working
// directory so no ambient rulezod.yaml is picked up.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "classes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatJSON, FormatYAML} {
		assert.NoError(t, ValidateOutputFormat(f), f)
	}
	err := ValidateOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format 'xml'")
}

func TestMarshalStructured(t *testing.T) {
	data := map[string]any{"schema": "UserDataSchema"}

	out, err := MarshalStructured(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"schema\": \"UserDataSchema\"\n}", string(out))

	out, err = MarshalStructured(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "schema: UserDataSchema\n", string(out))

	_, err = MarshalStructured(data, FormatText)
	assert.Error(t, err)
}

func TestOutputStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputStructured(&buf, map[string]int{"fields": 2}, FormatYAML))
	assert.Equal(t, "fields: 2\n", buf.String())
}

func TestFormatManifestPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatManifestPath(StdinFilePath))
	assert.Equal(t, "classes.yaml", FormatManifestPath("classes.yaml"))
}

func TestRejectSymlinkOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.ts")
	require.NoError(t, os.WriteFile(target, nil, 0644))
	link := filepath.Join(dir, "link.ts")
	require.NoError(t, os.Symlink(target, link))

	assert.NoError(t, RejectSymlinkOutput(filepath.Join(dir, "missing.ts")))
	assert.NoError(t, RejectSymlinkOutput(target))
	err := RejectSymlinkOutput(link)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to write to symlink")
}

func TestInputOptionReadsStdin(t *testing.T) {
	old := stdin
	stdin = strings.NewReader(testManifest)
	t.Cleanup(func() { stdin = old })

	opt, err := inputOption(StdinFilePath)
	require.NoError(t, err)
	assert.NotNil(t, opt)
}
