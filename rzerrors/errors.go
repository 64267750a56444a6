package rzerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrReference indicates a cross-class rule reference could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular rule inheritance chain.
	ErrCircularReference = errors.New("circular reference")

	// ErrExtraction indicates that a class could not be extracted.
	ErrExtraction = errors.New("extraction error")

	// ErrNoExtractor indicates that no extractor matched a class.
	ErrNoExtractor = errors.New("no extractor")

	// ErrNoHandler indicates that no type handler matched a field.
	ErrNoHandler = errors.New("no type handler")

	// ErrManifest indicates a class manifest could not be decoded.
	ErrManifest = errors.New("manifest error")
)

// ConfigError represents an invalid configuration or input.
// This includes unknown custom extractor/handler names and registrations that
// do not satisfy the expected capability interface.
type ConfigError struct {
	// Option is the name of the problematic configuration key
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ReferenceError represents a failure to resolve an inherited rule reference.
type ReferenceError struct {
	// Class is the class whose property declared the reference
	Class string
	// Property is the property that declared the reference
	Property string
	// Chain lists the visited "Class.property" links, ending with the repeated
	// link when IsCircular is true
	Chain []string
	// IsCircular is true if the chain loops back onto itself
	IsCircular bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Class != "" {
		msg += " in " + e.Class
		if e.Property != "" {
			msg += "." + e.Property
		}
	}
	if len(e.Chain) > 0 {
		msg += ": " + strings.Join(e.Chain, " -> ")
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ReferenceError has no underlying cause.
func (e *ReferenceError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// ExtractionError represents a class that no extractor could handle, or an
// extractor that failed on a class.
type ExtractionError struct {
	// Class is the qualified class name
	Class string
	// Extractor is the extractor that failed (empty when none matched)
	Extractor string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ExtractionError) Error() string {
	msg := "extraction error"
	if e.Class != "" {
		msg += " for " + e.Class
	}
	if e.Extractor != "" {
		msg += " (extractor " + e.Extractor + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// ErrNoExtractor only matches when no extractor was selected.
func (e *ExtractionError) Is(target error) bool {
	if target == ErrExtraction {
		return true
	}
	return target == ErrNoExtractor && e.Extractor == ""
}

// DispatchError represents a field that no type handler could build.
// With the fallback handler registered this indicates a broken registry.
type DispatchError struct {
	// Schema is the schema being built
	Schema string
	// Field is the field path
	Field string
	// Type is the inferred type tag
	Type string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DispatchError) Error() string {
	msg := "dispatch error"
	if e.Schema != "" {
		msg += " in " + e.Schema
	}
	if e.Field != "" {
		msg += " field " + e.Field
	}
	if e.Type != "" {
		msg += fmt.Sprintf(" (type %s)", e.Type)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DispatchError) Is(target error) bool {
	return target == ErrNoHandler
}

// ManifestError represents a failure to decode a class manifest.
type ManifestError struct {
	// Path is the manifest file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ManifestError) Error() string {
	msg := "manifest error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ManifestError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ManifestError) Is(target error) bool {
	return target == ErrManifest
}
