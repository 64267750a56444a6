package handler

import (
	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/validation"
)

// Built-in handler priorities.
const (
	PriorityRef      = 1000
	PriorityPassword = 200
	PriorityEnum     = 150
	PriorityDefault  = 100
	PriorityFallback = -1000
)

// typeHandler supplies the boilerplate of handlers that claim fields by type
// only.
type typeHandler struct{}

// CanHandleProperty implements Handler.
func (typeHandler) CanHandleProperty(*validation.ResolvedValidationSet) bool { return false }

// message returns the message of the first present rule among names.
func message(set *validation.ResolvedValidationSet, names ...string) string {
	for _, n := range names {
		if v, ok := set.Get(n); ok && v.Message != "" {
			return v.Message
		}
	}
	return ""
}

// base sets the required and type messages of a new node.
func base(n *builder.Node, set *validation.ResolvedValidationSet, typeRules ...string) *builder.Node {
	n.RequiredMessage = message(set, "required")
	n.TypeMessage = message(set, typeRules...)
	return n
}

// RefHandler builds references to named schemas.
type RefHandler struct{}

// Name implements Handler.
func (RefHandler) Name() string { return "ref" }

// Priority implements Handler.
func (RefHandler) Priority() int { return PriorityRef }

// CanHandle implements Handler.
func (RefHandler) CanHandle(validation.TypeTag) bool { return false }

// CanHandleProperty implements Handler.
func (RefHandler) CanHandleProperty(set *validation.ResolvedValidationSet) bool {
	return set.Ref != ""
}

// Build implements Handler.
func (RefHandler) Build(_ *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	return base(builder.RefTo(set.Ref), set), nil
}

// PasswordHandler builds password strings with their policy constraints.
type PasswordHandler struct{ typeHandler }

// Name implements Handler.
func (PasswordHandler) Name() string { return "password" }

// Priority implements Handler.
func (PasswordHandler) Priority() int { return PriorityPassword }

// CanHandle implements Handler.
func (PasswordHandler) CanHandle(t validation.TypeTag) bool { return t == validation.TypePassword }

// Build implements Handler.
func (PasswordHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.String(), set, "string")
	requireNonEmpty(n, set)
	applyRules(ctx, n, set, passwordTable)
	return n, nil
}

var passwordTable = merge(stringRules, passwordRules)

// requireNonEmpty rejects empty strings for required fields.
func requireNonEmpty(n *builder.Node, set *validation.ResolvedValidationSet) {
	if set.IsFieldRequired() {
		n.Apply("min", n.RequiredMessage, builder.Int(1))
	}
}

// EnumHandler builds enumerations of literal values.
type EnumHandler struct{ typeHandler }

// Name implements Handler.
func (EnumHandler) Name() string { return "enum" }

// Priority implements Handler.
func (EnumHandler) Priority() int { return PriorityEnum }

// CanHandle implements Handler.
func (EnumHandler) CanHandle(t validation.TypeTag) bool { return t.IsEnum() }

// Build implements Handler.
func (EnumHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.EnumOf(set.Type.EnumValues()...), set, "in")
	applyRules(ctx, n, set, nil)
	return n, nil
}

// StringHandler builds strings, including emails, URLs and UUIDs.
type StringHandler struct{ typeHandler }

// Name implements Handler.
func (StringHandler) Name() string { return "string" }

// Priority implements Handler.
func (StringHandler) Priority() int { return PriorityDefault }

// CanHandle implements Handler.
func (StringHandler) CanHandle(t validation.TypeTag) bool {
	switch t {
	case validation.TypeString, validation.TypeEmail, validation.TypeURL, validation.TypeUUID:
		return true
	}
	return false
}

// Build implements Handler.
func (StringHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.String(), set, "string")
	requireNonEmpty(n, set)
	applyRules(ctx, n, set, stringRules)
	return n, nil
}

// NumberHandler builds numbers.
type NumberHandler struct{ typeHandler }

// Name implements Handler.
func (NumberHandler) Name() string { return "number" }

// Priority implements Handler.
func (NumberHandler) Priority() int { return PriorityDefault }

// CanHandle implements Handler.
func (NumberHandler) CanHandle(t validation.TypeTag) bool { return t == validation.TypeNumber }

// Build implements Handler.
func (NumberHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.Number(), set, "integer", "numeric", "decimal")
	if v, ok := set.Get("integer"); ok {
		n.Apply("int", v.Message)
	}
	applyRules(ctx, n, set, numberRules)
	return n, nil
}

// BooleanHandler builds booleans.
type BooleanHandler struct{ typeHandler }

// Name implements Handler.
func (BooleanHandler) Name() string { return "boolean" }

// Priority implements Handler.
func (BooleanHandler) Priority() int { return PriorityDefault }

// CanHandle implements Handler.
func (BooleanHandler) CanHandle(t validation.TypeTag) bool { return t == validation.TypeBoolean }

// Build implements Handler.
func (BooleanHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.Boolean(), set, "boolean")
	applyRules(ctx, n, set, booleanRules)
	return n, nil
}

var booleanRules = ruleTable{
	"accepted": refine("(value) => value === true"),
	"declined": refine("(value) => value === false"),
}

// FileHandler builds file uploads.
type FileHandler struct{ typeHandler }

// Name implements Handler.
func (FileHandler) Name() string { return "file" }

// Priority implements Handler.
func (FileHandler) Priority() int { return PriorityDefault }

// CanHandle implements Handler.
func (FileHandler) CanHandle(t validation.TypeTag) bool { return t == validation.TypeFile }

// Build implements Handler.
func (FileHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.File(), set, "file", "image")
	applyRules(ctx, n, set, fileRules)
	return n, nil
}

// ArrayHandler builds arrays, recursing into the element set.
type ArrayHandler struct{ typeHandler }

// Name implements Handler.
func (ArrayHandler) Name() string { return "array" }

// Priority implements Handler.
func (ArrayHandler) Priority() int { return PriorityDefault }

// CanHandle implements Handler.
func (ArrayHandler) CanHandle(t validation.TypeTag) bool { return t == validation.TypeArray }

// Build implements Handler.
func (ArrayHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	var items *builder.Node
	if set.Items != nil {
		var err error
		if items, err = ctx.Build(set.Items); err != nil {
			return nil, err
		}
	}
	n := base(builder.ArrayOf(items), set, "array", "list")
	applyRules(ctx, n, set, arrayRules)
	return n, nil
}

// ObjectHandler builds inline objects from child sets.
type ObjectHandler struct{ typeHandler }

// Name implements Handler.
func (ObjectHandler) Name() string { return "object" }

// Priority implements Handler.
func (ObjectHandler) Priority() int { return PriorityDefault }

// CanHandle implements Handler.
func (ObjectHandler) CanHandle(t validation.TypeTag) bool { return t == validation.TypeObject }

// Build implements Handler.
func (ObjectHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	n := base(builder.Object(), set, "array")
	for _, child := range set.Children {
		node, err := ctx.Build(child)
		if err != nil {
			return nil, err
		}
		node.SetOptional(!child.IsFieldRequired())
		n.AddField(child.Field, node)
	}
	applyRules(ctx, n, set, nil)
	return n, nil
}

// FallbackHandler accepts every field and builds an unconstrained node.
type FallbackHandler struct{ typeHandler }

// Name implements Handler.
func (FallbackHandler) Name() string { return "fallback" }

// Priority implements Handler.
func (FallbackHandler) Priority() int { return PriorityFallback }

// CanHandle implements Handler.
func (FallbackHandler) CanHandle(validation.TypeTag) bool { return true }

// Build implements Handler.
func (FallbackHandler) Build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	ctx.Warn(set, "", "no handler for type %s, accepting any value", set.Type)
	return builder.Any(), nil
}
