package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/rulezod/compiler"
	"github.com/erraggy/rulezod/internal/testutil"
	"github.com/erraggy/rulezod/rzerrors"
)

// clearEnv isolates tests from RULEZOD_* variables in the ambient environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RULEZOD_TARGET", "RULEZOD_OUTPUT_STYLE", "RULEZOD_NAMESPACE",
		"RULEZOD_IMPORT_APP_TYPES", "RULEZOD_APP_TYPES_PATH", "RULEZOD_SCHEMA_SUFFIX",
		"RULEZOD_EXTRACTORS", "RULEZOD_HANDLERS", "RULEZOD_LOCALE",
		"RULEZOD_MESSAGES", "RULEZOD_SPLIT_FILES", "RULEZOD_OUTPUT_FILE", "RULEZOD_STRICT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := testutil.WriteTempFile(t, "rulezod.yaml", []byte(`
output_style: namespace
namespace: Forms
import_app_types: true
extractors: [livewire]
messages: false
split_files: true
`))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "namespace", c.OutputStyle)
	assert.Equal(t, "Forms", c.Namespace)
	assert.True(t, c.ImportAppTypes)
	assert.Equal(t, []string{"livewire"}, c.Extractors)
	assert.False(t, c.Messages)
	assert.True(t, c.SplitFiles)
	// untouched keys keep their defaults
	assert.Equal(t, "Schema", c.SchemaSuffix)
	assert.Equal(t, "en", c.Locale)
}

func TestLoadEmptyFile(t *testing.T) {
	clearEnv(t)
	c, err := Load(testutil.WriteTempFile(t, "rulezod.yaml", nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RULEZOD_OUTPUT_STYLE", "namespace")
	t.Setenv("RULEZOD_NAMESPACE", "Validation")
	t.Setenv("RULEZOD_HANDLERS", "money, phone")
	t.Setenv("RULEZOD_STRICT", "true")
	t.Setenv("RULEZOD_LOCALE", "en-GB")

	c := Default()
	c.ApplyEnv()
	assert.Equal(t, "namespace", c.OutputStyle)
	assert.Equal(t, "Validation", c.Namespace)
	assert.Equal(t, []string{"money", "phone"}, c.Handlers)
	assert.True(t, c.Strict)
	assert.Equal(t, "en-GB", c.Locale)
}

func TestEnvInvalidValuesKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RULEZOD_OUTPUT_STYLE", "global")
	t.Setenv("RULEZOD_SPLIT_FILES", "maybe")

	c := Default()
	c.ApplyEnv()
	assert.Equal(t, "module", c.OutputStyle)
	assert.False(t, c.SplitFiles)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, rzerrors.ErrConfig))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = Load(testutil.WriteTempFile(t, "rulezod.yaml", []byte("outputs: x\n")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot decode config file")

	_, err = Load(testutil.WriteTempFile(t, "rulezod.yaml", []byte("output_style: global\n")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, rzerrors.ErrConfig))
}

func TestOptions(t *testing.T) {
	clearEnv(t)
	c := Default()
	c.Messages = false
	c.OutputFile = "forms.ts"

	opts := append(c.Options(), compiler.WithClasses(testutil.NewRequestClass()))
	result, err := compiler.CompileWithOptions(opts...)
	require.NoError(t, err)
	require.NotNil(t, result.GetFile("forms.ts"))
	assert.NotContains(t, string(result.GetFile("forms.ts").Content), "required_error")
}

func TestString(t *testing.T) {
	assert.Contains(t, Default().String(), "output_style: module")
}
