package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/rulezod/internal/fileutil"
)

// WriteFiles writes every generated file into outputDir, creating it when
// missing. File names must be bare names; nested paths are rejected.
func (r *CompileResult) WriteFiles(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, f := range r.Files {
		if filepath.Base(f.Name) != f.Name {
			return fmt.Errorf("invalid file name %q: must not contain path separators", f.Name)
		}
		if err := writeReadable(filepath.Join(outputDir, f.Name), f.Content); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	return nil
}

// WriteArchive writes the txtar bundle of all generated files to path.
func (r *CompileResult) WriteArchive(path string) error {
	return writeWithParents(path, r.Archive())
}

// WriteFile writes f to path, creating parent directories as needed.
func (f *GeneratedFile) WriteFile(path string) error {
	return writeWithParents(path, f.Content)
}

func writeWithParents(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", filepath.Base(path), err)
	}
	if err := writeReadable(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeReadable(path string, data []byte) error {
	return os.WriteFile(path, data, fileutil.ReadableByAll)
}
