package handler

import (
	"sort"
	"sync"

	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/rzerrors"
	"github.com/erraggy/rulezod/validation"
)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]func() any)
)

// RegisterFactory makes a custom handler available under name. The factory
// result must implement Handler; this is checked when a registry enables the
// name.
func RegisterFactory(name string, factory func() any) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

func lookupFactory(name string) (func() any, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

type registered struct {
	h   Handler
	seq int
}

// Registry dispatches fields to handlers.
type Registry struct {
	handlers []registered
	nextSeq  int

	logger   logging.Logger
	issues   *issues.Collector
	custom   []string
	builtins bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Registry) { r.logger = logging.OrNop(l) }
}

// WithIssues sets the collector for skipped rules.
func WithIssues(c *issues.Collector) Option {
	return func(r *Registry) { r.issues = c }
}

// WithCustomHandlers enables handlers registered with RegisterFactory.
func WithCustomHandlers(names ...string) Option {
	return func(r *Registry) { r.custom = append(r.custom, names...) }
}

// WithoutBuiltins skips registration of the built-in handlers, including the
// fallback.
func WithoutBuiltins() Option {
	return func(r *Registry) { r.builtins = false }
}

// NewRegistry returns a registry with the built-in handlers and any enabled
// custom handlers. It fails with a *rzerrors.ConfigError when a custom
// handler name is unknown or its factory does not produce a Handler.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{logger: logging.NopLogger{}, builtins: true}
	for _, opt := range opts {
		opt(r)
	}
	if r.builtins {
		for _, h := range Builtins() {
			r.Register(h)
		}
	}
	for _, name := range r.custom {
		factory, ok := lookupFactory(name)
		if !ok {
			return nil, &rzerrors.ConfigError{Option: "handlers", Value: name, Message: "handler is not registered"}
		}
		h, ok := factory().(Handler)
		if !ok {
			return nil, &rzerrors.ConfigError{Option: "handlers", Value: name, Message: "factory does not produce a Handler"}
		}
		r.Register(h)
		r.logger.Debug("registered custom handler", "name", name, "priority", h.Priority())
	}
	return r, nil
}

// Builtins returns fresh instances of the built-in handlers.
func Builtins() []Handler {
	return []Handler{
		RefHandler{},
		PasswordHandler{},
		EnumHandler{},
		StringHandler{},
		NumberHandler{},
		BooleanHandler{},
		FileHandler{},
		ArrayHandler{},
		ObjectHandler{},
		FallbackHandler{},
	}
}

// Register adds a handler. Handlers are tried by descending priority; equal
// priorities keep registration order.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, registered{h: h, seq: r.nextSeq})
	r.nextSeq++
	sort.SliceStable(r.handlers, func(i, j int) bool {
		a, b := r.handlers[i], r.handlers[j]
		if a.h.Priority() != b.h.Priority() {
			return a.h.Priority() > b.h.Priority()
		}
		return a.seq < b.seq
	})
}

// Handlers returns the registered handlers in trial order.
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, len(r.handlers))
	for i, reg := range r.handlers {
		out[i] = reg.h
	}
	return out
}

// HandlerFor returns the handler for a field, or nil. A handler claiming the
// field through CanHandleProperty wins over any type-based match.
func (r *Registry) HandlerFor(set *validation.ResolvedValidationSet) Handler {
	for _, reg := range r.handlers {
		if reg.h.CanHandleProperty(set) {
			return reg.h
		}
	}
	for _, reg := range r.handlers {
		if reg.h.CanHandle(set.Type) {
			return reg.h
		}
	}
	return nil
}

// Build builds the node for a single field outside of any schema.
func (r *Registry) Build(set *validation.ResolvedValidationSet) (*builder.Node, error) {
	return r.build(&Context{reg: r}, set)
}

// BuildSchema builds the object node of an extracted schema. Property nodes
// are cached on the schema properties.
func (r *Registry) BuildSchema(s *extractor.ExtractedSchema) (*builder.Node, error) {
	ctx := &Context{reg: r, schema: s.Name}
	obj := builder.Object()
	for _, prop := range s.Properties {
		if prop.Node == nil {
			node, err := r.build(ctx, prop.Validations)
			if err != nil {
				return nil, err
			}
			prop.Node = node
		}
		prop.Node.SetOptional(prop.Optional)
		obj.AddField(prop.Name, prop.Node)
	}
	return obj, nil
}

func (r *Registry) build(ctx *Context, set *validation.ResolvedValidationSet) (*builder.Node, error) {
	if set == nil {
		return builder.Any(), nil
	}
	h := r.HandlerFor(set)
	if h == nil {
		return nil, &rzerrors.DispatchError{
			Schema:  ctx.schema,
			Field:   set.Path,
			Type:    string(set.Type),
			Message: "no handler accepts the field",
		}
	}
	node, err := h.Build(ctx, set)
	if err != nil {
		return nil, &rzerrors.DispatchError{
			Schema:  ctx.schema,
			Field:   set.Path,
			Type:    string(set.Type),
			Message: "handler " + h.Name() + " failed",
			Cause:   err,
		}
	}
	if set.IsNullable() {
		node.SetNullable(true)
	}
	return node, nil
}
