package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rulezod/internal/testutil"
)

func TestWriteFiles(t *testing.T) {
	result := &CompileResult{Files: []GeneratedFile{
		{Name: "a.ts", Content: []byte("export {};\n")},
		{Name: "index.ts", Content: []byte("export * from \"./a\";\n")},
	}}
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, result.WriteFiles(dir))

	data, err := os.ReadFile(filepath.Join(dir, "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(data))

	info, err := os.Stat(filepath.Join(dir, "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFilesRejectsPaths(t *testing.T) {
	result := &CompileResult{Files: []GeneratedFile{{Name: "../escape.ts"}}}
	err := result.WriteFiles(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not contain path separators")
}

func TestWriteArchive(t *testing.T) {
	result, err := CompileWithOptions(WithClasses(testutil.NewDataClasses()...), WithSplitFiles(true))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bundle", "schemas.txtar")
	require.NoError(t, result.WriteArchive(path))

	files := testutil.LoadArchive(t, path)
	assert.Equal(t, string(result.GetFile("index.ts").Content), string(files["index.ts"]))
	assert.Contains(t, string(files[""]), "2 schema(s)")
}

func TestGeneratedFileWriteFile(t *testing.T) {
	f := &GeneratedFile{Name: "x.ts", Content: []byte("x")}
	path := filepath.Join(t.TempDir(), "nested", "x.ts")
	require.NoError(t, f.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
