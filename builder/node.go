package builder

import (
	"slices"
	"strconv"
)

// Kind is the base type of a schema node.
type Kind string

// Node kinds.
const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
	KindRef     Kind = "ref"
	KindUnion   Kind = "union"
	KindFile    Kind = "file"
	KindAny     Kind = "any"
)

// ArgKind tells an emitter how to render an operator argument.
type ArgKind int

const (
	// ArgNumber is a numeric literal rendered as written.
	ArgNumber ArgKind = iota
	// ArgString is a string literal rendered quoted.
	ArgString
	// ArgRegex is a regular expression literal such as /^a+$/i.
	ArgRegex
	// ArgRaw is target code rendered verbatim.
	ArgRaw
)

// Arg is one operator argument.
type Arg struct {
	Kind  ArgKind
	Value string
}

// Num returns a numeric argument.
func Num(v string) Arg { return Arg{Kind: ArgNumber, Value: v} }

// Int returns a numeric argument for an integer.
func Int(v int) Arg { return Arg{Kind: ArgNumber, Value: strconv.Itoa(v)} }

// Str returns a string argument.
func Str(v string) Arg { return Arg{Kind: ArgString, Value: v} }

// Regex returns a regular expression argument.
func Regex(v string) Arg { return Arg{Kind: ArgRegex, Value: v} }

// Raw returns an argument rendered verbatim.
func Raw(v string) Arg { return Arg{Kind: ArgRaw, Value: v} }

// Op is one validation operator applied to a node, e.g. max(255).
type Op struct {
	Name    string
	Args    []Arg
	Message string
}

// Field is a named property of an object node.
type Field struct {
	Name string
	Node *Node
}

// Node is a target-independent schema fragment: a base type with ordered
// validation operators and nullable/optional modifiers.
type Node struct {
	Kind Kind
	// Items is the element node of an array.
	Items *Node
	// Fields are the properties of an object, in order.
	Fields []Field
	// Values are the literal members of an enum.
	Values []string
	// Ref names the referenced schema of a ref node.
	Ref string
	// Variants are the members of a union.
	Variants []*Node
	// Ops are the validation operators in application order.
	Ops []Op

	// RequiredMessage is reported when the value is missing.
	RequiredMessage string
	// TypeMessage is reported when the value has the wrong type.
	TypeMessage string

	Nullable bool
	Optional bool
}

// String returns a string node.
func String() *Node { return &Node{Kind: KindString} }

// Number returns a number node.
func Number() *Node { return &Node{Kind: KindNumber} }

// Boolean returns a boolean node.
func Boolean() *Node { return &Node{Kind: KindBoolean} }

// File returns a file upload node.
func File() *Node { return &Node{Kind: KindFile} }

// Any returns a node accepting any value.
func Any() *Node { return &Node{Kind: KindAny} }

// ArrayOf returns an array node with the given element node. A nil element
// means elements of any type.
func ArrayOf(items *Node) *Node {
	if items == nil {
		items = Any()
	}
	return &Node{Kind: KindArray, Items: items}
}

// Object returns an object node with the given fields.
func Object(fields ...Field) *Node {
	return &Node{Kind: KindObject, Fields: fields}
}

// EnumOf returns an enum node of literal values.
func EnumOf(values ...string) *Node {
	return &Node{Kind: KindEnum, Values: values}
}

// RefTo returns a reference to a named schema.
func RefTo(name string) *Node {
	return &Node{Kind: KindRef, Ref: name}
}

// UnionOf returns a union of variants.
func UnionOf(variants ...*Node) *Node {
	return &Node{Kind: KindUnion, Variants: variants}
}

// Apply appends an operator and returns the node.
func (n *Node) Apply(name, message string, args ...Arg) *Node {
	n.Ops = append(n.Ops, Op{Name: name, Args: args, Message: message})
	return n
}

// AddField appends an object field and returns the node.
func (n *Node) AddField(name string, node *Node) *Node {
	n.Fields = append(n.Fields, Field{Name: name, Node: node})
	return n
}

// SetNullable sets the nullable modifier and returns the node.
func (n *Node) SetNullable(v bool) *Node {
	n.Nullable = v
	return n
}

// SetOptional sets the optional modifier and returns the node.
func (n *Node) SetOptional(v bool) *Node {
	n.Optional = v
	return n
}

// HasOp reports whether an operator with name has been applied.
func (n *Node) HasOp(name string) bool {
	return slices.ContainsFunc(n.Ops, func(op Op) bool { return op.Name == name })
}

// Op returns the first operator with name.
func (n *Node) Op(name string) (Op, bool) {
	for _, op := range n.Ops {
		if op.Name == name {
			return op, true
		}
	}
	return Op{}, false
}

// Field returns the node of the named object field, or nil.
func (n *Node) Field(name string) *Node {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Node
		}
	}
	return nil
}

// Refs returns the distinct schema names referenced by the node and its
// descendants, in first-seen order.
func (n *Node) Refs() []string {
	var out []string
	seen := make(map[string]bool)
	n.walk(func(cur *Node) {
		if cur.Kind == KindRef && cur.Ref != "" && !seen[cur.Ref] {
			seen[cur.Ref] = true
			out = append(out, cur.Ref)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	n.Items.walk(fn)
	for _, f := range n.Fields {
		f.Node.walk(fn)
	}
	for _, v := range n.Variants {
		v.walk(fn)
	}
}
