package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTool_InlineOutput(t *testing.T) {
	input := generateInput{Manifest: manifestInput{Content: testManifest}}
	res, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.True(t, output.Success)
	assert.Equal(t, []string{"StoreUserRequestSchema", "UserDataSchema", "AddressDataSchema"}, output.Schemas)
	require.Len(t, output.Files, 1)
	assert.Equal(t, "schemas.ts", output.Files[0].Name)
	assert.Contains(t, output.Files[0].Content, "export const UserDataSchema = z.object({")
	assert.Equal(t, len(output.Files[0].Content), output.Files[0].Size)
}

func TestGenerateTool_WritesSplitFiles(t *testing.T) {
	dir := t.TempDir()
	input := generateInput{
		Manifest:  manifestInput{Content: testManifest},
		Split:     true,
		OutputDir: dir,
	}
	_, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, dir, output.OutputDir)
	assert.Equal(t, 4, output.FileCount, "three schemas plus an index")
	for _, f := range output.Files {
		assert.Empty(t, f.Content, "content is not returned when written to disk")
		info, statErr := os.Stat(filepath.Join(dir, f.Name))
		require.NoError(t, statErr)
		assert.Equal(t, int64(f.Size), info.Size())
	}
}

func TestGenerateTool_Namespace(t *testing.T) {
	input := generateInput{
		Manifest:  manifestInput{Content: testManifest},
		Style:     "namespace",
		Namespace: "Forms",
	}
	_, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Len(t, output.Files, 1)
	assert.Contains(t, output.Files[0].Content, "export namespace Forms {")
}

func TestGenerateTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input generateInput
		want  string
	}{
		{"no manifest", generateInput{}, "exactly one of file or content"},
		{"bad style", generateInput{Manifest: manifestInput{Content: testManifest}, Style: "commonjs"}, "commonjs"},
		{"bad manifest", generateInput{Manifest: manifestInput{Content: "classes: 3"}}, "classes must be a list or a mapping"},
		{"bad locale", generateInput{Manifest: manifestInput{Content: testManifest}, Locale: "not a locale!"}, "locale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
			require.Len(t, res.Content, 1)
			text, ok := res.Content[0].(*mcp.TextContent)
			require.True(t, ok)
			assert.Contains(t, text.Text, tt.want)
		})
	}
}

func TestGenerateTool_StrictFailsOnWarnings(t *testing.T) {
	manifest := "classes:\n  App.Data.OrderData:\n    properties:\n      customer: {data: App.Data.MissingData}\n"
	res, _, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, generateInput{
		Manifest: manifestInput{Content: manifest},
		Strict:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.IsError)
}
