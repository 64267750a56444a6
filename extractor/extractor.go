package extractor

import (
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/validation"
)

// Extractor turns a class into a named schema.
type Extractor interface {
	// Name identifies the extractor in errors and logs.
	Name() string
	// Priority orders extractors; higher runs first.
	Priority() int
	// CanHandle reports whether the extractor understands the class.
	CanHandle(c *Class) bool
	// Extract builds the schema for the class.
	Extract(env Env, c *Class) (*ExtractedSchema, error)
}

// Env gives extractors access to the rest of the run.
type Env interface {
	// Lookup returns a known class by qualified name.
	Lookup(name string) (*Class, bool)
	// SchemaName returns the schema name used for a class.
	SchemaName(c *Class) string
	// SchemaNameFor returns the schema name for a qualified class name, which
	// need not be known.
	SchemaNameFor(className string) string
	// Resolver returns a validation resolver scoped to a schema and primed
	// with the class's custom messages.
	Resolver(c *Class, schema string) *validation.Resolver
	// Logger returns the run logger.
	Logger() logging.Logger
	// Warn records a recoverable problem.
	Warn(path, rule, format string, args ...any)
}
