package handler

import (
	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/validation"
)

// Handler builds schema nodes for one family of fields.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string
	// Priority orders handlers; higher runs first.
	Priority() int
	// CanHandle reports whether the handler builds fields of type t.
	CanHandle(t validation.TypeTag) bool
	// CanHandleProperty reports whether the handler claims the field
	// regardless of its type. It takes precedence over CanHandle.
	CanHandleProperty(set *validation.ResolvedValidationSet) bool
	// Build constructs the node for the field.
	Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error)
}

// Context is passed to handlers during a build.
type Context struct {
	reg    *Registry
	schema string
}

// Schema returns the name of the schema being built.
func (c *Context) Schema() string { return c.schema }

// Build dispatches a nested field.
func (c *Context) Build(set *validation.ResolvedValidationSet) (*builder.Node, error) {
	return c.reg.build(c, set)
}

// Skip records that a rule could not be expressed for the field.
func (c *Context) Skip(set *validation.ResolvedValidationSet, v validation.ResolvedValidation, reason string) {
	path := set.Path
	if c.schema != "" {
		path = c.schema + "." + path
	}
	c.reg.logger.Debug("rule skipped", "path", path, "rule", v.Rule, "reason", reason)
	c.reg.issues.Addf(severity.SeverityInfo, path, v.Rule, "rule skipped: %s", reason)
}

// Warn records a degradation for the field.
func (c *Context) Warn(set *validation.ResolvedValidationSet, rule, format string, args ...any) {
	path := set.Path
	if c.schema != "" {
		path = c.schema + "." + path
	}
	c.reg.issues.Addf(severity.SeverityWarning, path, rule, format, args...)
}
