package emitter

import (
	"strings"

	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/internal/jsutil"
)

const indentUnit = "  "

// renderer serializes builder nodes into Zod expressions.
type renderer struct {
	// known holds every schema name that will be declared.
	known map[string]bool
	// declared holds the schema names declared so far.
	declared map[string]bool
	// unknownRef is called for references to schemas that are never declared.
	unknownRef func(name string)
}

func (r *renderer) node(n *builder.Node, depth int) string {
	var b strings.Builder
	b.WriteString(r.base(n, depth))
	for _, op := range n.Ops {
		b.WriteString(renderOp(op))
	}
	if n.Nullable {
		b.WriteString(".nullable()")
	}
	if n.Optional {
		b.WriteString(".optional()")
	}
	return b.String()
}

func (r *renderer) base(n *builder.Node, depth int) string {
	switch n.Kind {
	case builder.KindString:
		return "z.string(" + typeParams(n, "") + ")"
	case builder.KindNumber:
		return "z.number(" + typeParams(n, "") + ")"
	case builder.KindBoolean:
		return "z.boolean(" + typeParams(n, "") + ")"
	case builder.KindFile:
		msg := n.TypeMessage
		if msg == "" {
			msg = n.RequiredMessage
		}
		if msg == "" {
			return "z.instanceof(File)"
		}
		return "z.instanceof(File, { message: " + jsutil.Quote(msg) + " })"
	case builder.KindEnum:
		if len(n.Values) == 0 {
			return "z.never()"
		}
		return "z.enum(" + jsutil.List(n.Values) + typeParams(n, ", ") + ")"
	case builder.KindArray:
		items := "z.any()"
		if n.Items != nil {
			items = r.node(n.Items, depth)
		}
		return "z.array(" + items + typeParams(n, ", ") + ")"
	case builder.KindObject:
		return "z.object(" + r.shape(n, depth) + typeParams(n, ", ") + ")"
	case builder.KindUnion:
		return r.union(n, depth)
	case builder.KindRef:
		return r.ref(n.Ref)
	}
	return "z.any()"
}

func (r *renderer) shape(n *builder.Node, depth int) string {
	if len(n.Fields) == 0 {
		return "{}"
	}
	pad := strings.Repeat(indentUnit, depth+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, f := range n.Fields {
		b.WriteString(pad)
		b.WriteString(jsutil.Key(f.Name))
		b.WriteString(": ")
		b.WriteString(r.node(f.Node, depth+1))
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}")
	return b.String()
}

func (r *renderer) union(n *builder.Node, depth int) string {
	switch len(n.Variants) {
	case 0:
		return "z.never()"
	case 1:
		return r.node(n.Variants[0], depth)
	}
	parts := make([]string, len(n.Variants))
	for i, v := range n.Variants {
		parts[i] = r.node(v, depth)
	}
	return "z.union([" + strings.Join(parts, ", ") + "])"
}

// ref renders a schema reference. References to schemas declared later, or
// to the schema being declared, are deferred with z.lazy.
func (r *renderer) ref(name string) string {
	if !r.known[name] {
		if r.unknownRef != nil {
			r.unknownRef(name)
		}
		return "z.any()"
	}
	if r.declared[name] {
		return name
	}
	return "z.lazy(() => " + name + ")"
}

// typeParams renders the required and invalid type messages as a params
// object, prefixed with sep when non-empty.
func typeParams(n *builder.Node, sep string) string {
	var parts []string
	if n.RequiredMessage != "" {
		parts = append(parts, "required_error: "+jsutil.Quote(n.RequiredMessage))
	}
	if n.TypeMessage != "" {
		parts = append(parts, "invalid_type_error: "+jsutil.Quote(n.TypeMessage))
	}
	if len(parts) == 0 {
		return ""
	}
	return sep + "{ " + strings.Join(parts, ", ") + " }"
}

func renderOp(op builder.Op) string {
	args := make([]string, 0, len(op.Args)+1)
	for _, a := range op.Args {
		args = append(args, renderArg(a))
	}
	if op.Message != "" {
		args = append(args, "{ message: "+jsutil.Quote(op.Message)+" }")
	}
	return "." + op.Name + "(" + strings.Join(args, ", ") + ")"
}

func renderArg(a builder.Arg) string {
	if a.Kind == builder.ArgString {
		return jsutil.Quote(a.Value)
	}
	return a.Value
}
