package rzerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ConfigError{
			Option:  "extractors",
			Value:   "Missing",
			Message: "unknown extractor",
			Cause:   cause,
		}
		want := "configuration error for extractors (value: Missing): unknown extractor: underlying error"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrConfig only", func(t *testing.T) {
		err := &ConfigError{}
		if !errors.Is(err, ErrConfig) {
			t.Error("ConfigError should match ErrConfig")
		}
		if errors.Is(err, ErrNoHandler) {
			t.Error("ConfigError should not match ErrNoHandler")
		}
	})
}

func TestReferenceError(t *testing.T) {
	t.Run("circular chain", func(t *testing.T) {
		err := &ReferenceError{
			Class:      "App\\Data\\A",
			Property:   "name",
			Chain:      []string{"A.name", "B.name", "A.name"},
			IsCircular: true,
		}
		if err.Error() != "circular reference in App\\Data\\A.name: A.name -> B.name -> A.name" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
		if !errors.Is(err, ErrCircularReference) {
			t.Error("circular ReferenceError should match ErrCircularReference")
		}
		if !errors.Is(err, ErrReference) {
			t.Error("circular ReferenceError should match ErrReference")
		}
	})

	t.Run("dangling reference is not circular", func(t *testing.T) {
		err := &ReferenceError{Class: "A", Message: "unknown class B"}
		if errors.Is(err, ErrCircularReference) {
			t.Error("non-circular ReferenceError should not match ErrCircularReference")
		}
		if err.Error() != "reference error in A: unknown class B" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})
}

func TestExtractionError(t *testing.T) {
	err := fmt.Errorf("compile: %w", &ExtractionError{Class: "App\\Empty", Message: "no extractor can handle class"})
	if !errors.Is(err, ErrNoExtractor) {
		t.Error("wrapped ExtractionError should match ErrNoExtractor")
	}
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatal("errors.As should extract ExtractionError")
	}
	if extractErr.Class != "App\\Empty" {
		t.Errorf("unexpected class: %s", extractErr.Class)
	}

	failed := &ExtractionError{Class: "App\\User", Extractor: "data", Cause: &ReferenceError{IsCircular: true}}
	if errors.Is(failed, ErrNoExtractor) {
		t.Error("a failed extractor should not match ErrNoExtractor")
	}
	if !errors.Is(failed, ErrExtraction) || !errors.Is(failed, ErrCircularReference) {
		t.Error("a failed extractor should match ErrExtraction and its cause")
	}
}

func TestDispatchError(t *testing.T) {
	err := &DispatchError{Schema: "UserSchema", Field: "age", Type: "number", Message: "no handler"}
	if err.Error() != "dispatch error in UserSchema field age (type number): no handler" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrNoHandler) {
		t.Error("DispatchError should match ErrNoHandler")
	}
}

func TestManifestError(t *testing.T) {
	cause := errors.New("yaml: bad indent")
	err := &ManifestError{Path: "classes.yaml", Line: 4, Message: "decode", Cause: cause}
	if err.Error() != "manifest error in classes.yaml at line 4: decode: yaml: bad indent" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ManifestError should unwrap to its cause")
	}
	if !errors.Is(err, ErrManifest) {
		t.Error("ManifestError should match ErrManifest")
	}
}
