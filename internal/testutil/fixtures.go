// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
	"golang.org/x/tools/txtar"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/rules"
)

// NewRequestClass returns a request-style class with a flat rule map:
// a required string, an optional email and a confirmed password.
func NewRequestClass() *extractor.Class {
	return &extractor.Class{
		Name: "App.Http.Requests.StoreUserRequest",
		Rules: func() rules.Map {
			return rules.Map{
				{Path: "name", Rule: "required|string|max:255"},
				{Path: "email", Rule: "nullable|email"},
				{Path: "password", Rule: "required|string|min:8|confirmed"},
			}
		},
	}
}

// NewDataClasses returns a data-style UserData class that references an
// AddressData class.
func NewDataClasses() []*extractor.Class {
	address := &extractor.Class{
		Name: "App.Data.AddressData",
		Kind: extractor.KindData,
		Properties: []extractor.Property{
			{Name: "street", Type: "string", Rules: []any{"max:120"}},
			{Name: "zip", Type: "string", Nullable: true},
		},
	}
	user := &extractor.Class{
		Name: "App.Data.UserData",
		Kind: extractor.KindData,
		Properties: []extractor.Property{
			{Name: "name", Type: "string", Rules: []any{"max:255"}},
			{Name: "tags", Type: "array", ItemRules: []any{"string"}},
			{Name: "address", Data: address.Name},
		},
	}
	return []*extractor.Class{user, address}
}

// WriteTempFile writes data to name inside a per-test temporary directory
// and returns the full path.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary file %s: %v", name, err)
	}
	return tmpFile
}

// WriteTempYAML marshals doc to YAML and writes it to a temporary file.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteTempFile(t, "test.yaml", data)
}

// WriteTempJSON marshals doc to JSON and writes it to a temporary file.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteTempFile(t, "test.json", data)
}

// LoadArchive reads a txtar fixture and returns its files by name. The
// archive comment is returned under the empty name.
func LoadArchive(t *testing.T, path string) map[string][]byte {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return ArchiveFiles(ar)
}

// ParseArchive is LoadArchive for inline fixtures.
func ParseArchive(data string) map[string][]byte {
	return ArchiveFiles(txtar.Parse([]byte(data)))
}

// ArchiveFiles indexes the files of ar by name.
func ArchiveFiles(ar *txtar.Archive) map[string][]byte {
	out := make(map[string][]byte, len(ar.Files)+1)
	out[""] = ar.Comment
	for _, f := range ar.Files {
		out[f.Name] = f.Data
	}
	return out
}
