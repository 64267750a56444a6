package emitter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/handler"
	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/rzerrors"
)

// Emitter serializes extracted schemas into target code.
type Emitter interface {
	// Name returns the target name, e.g. "zod".
	Name() string
	// Emit returns a single source file declaring every schema.
	Emit(schemas []*extractor.ExtractedSchema) (string, error)
	// EmitFiles returns one file per schema plus an index file.
	EmitFiles(schemas []*extractor.ExtractedSchema) ([]File, error)
}

// File is one emitted source file.
type File struct {
	// Name is the file name, e.g. "UserSchema.ts"
	Name string
	// Content is the file content
	Content []byte
}

// Style selects how declarations are wrapped.
type Style string

const (
	// StyleModule emits top-level ES module exports.
	StyleModule Style = "module"
	// StyleNamespace wraps declarations in an exported TypeScript namespace.
	StyleNamespace Style = "namespace"
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleModule, StyleNamespace:
		return Style(s), nil
	case "":
		return StyleModule, nil
	}
	return "", &rzerrors.ConfigError{Option: "output_style", Value: s, Message: "must be module or namespace"}
}

// Defaults used when options are not set.
const (
	DefaultNamespace    = "Schemas"
	DefaultAppTypesPath = "@/types/generated"
	DefaultTarget       = "zod"
)

type config struct {
	style          Style
	namespace      string
	importAppTypes bool
	appTypesPath   string
	suffix         string
	registry       *handler.Registry
	logger         logging.Logger
	issues         *issues.Collector
}

// Option configures an emitter.
type Option func(*config) error

// WithStyle sets the wrapping style.
// Default: StyleModule
func WithStyle(s Style) Option {
	return func(c *config) error {
		if _, err := ParseStyle(string(s)); err != nil {
			return err
		}
		c.style = s
		return nil
	}
}

// WithNamespace sets the namespace identifier used by StyleNamespace.
// Default: "Schemas"
func WithNamespace(ns string) Option {
	return func(c *config) error {
		if ns == "" {
			return &rzerrors.ConfigError{Option: "namespace", Message: "cannot be empty"}
		}
		c.namespace = ns
		return nil
	}
}

// WithAppTypes annotates data-style schemas with the application's generated
// types imported from path. An empty path selects DefaultAppTypesPath.
func WithAppTypes(enabled bool, path string) Option {
	return func(c *config) error {
		c.importAppTypes = enabled
		if path != "" {
			c.appTypesPath = path
		}
		return nil
	}
}

// WithSchemaSuffix sets the suffix stripped from schema names to derive
// inferred type names.
// Default: "Schema"
func WithSchemaSuffix(s string) Option {
	return func(c *config) error {
		c.suffix = s
		return nil
	}
}

// WithRegistry sets the handler registry used to build schema nodes.
func WithRegistry(r *handler.Registry) Option {
	return func(c *config) error {
		c.registry = r
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// WithIssues sets the collector for emission warnings.
func WithIssues(ic *issues.Collector) Option {
	return func(c *config) error {
		c.issues = ic
		return nil
	}
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		style:        StyleModule,
		namespace:    DefaultNamespace,
		appTypesPath: DefaultAppTypesPath,
		suffix:       extractor.DefaultSchemaSuffix,
		logger:       logging.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.registry == nil {
		reg, err := handler.NewRegistry(handler.WithLogger(cfg.logger), handler.WithIssues(cfg.issues))
		if err != nil {
			return nil, err
		}
		cfg.registry = reg
	}
	return cfg, nil
}

// Factory constructs an emitter for a target.
type Factory func(opts ...Option) (Emitter, error)

var (
	targetsMu sync.RWMutex
	targets   = map[string]Factory{
		DefaultTarget: newZodTarget,
	}
)

func newZodTarget(opts ...Option) (Emitter, error) {
	e, err := NewZod(opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// RegisterTarget makes an emitter available under name, replacing any
// previous registration.
func RegisterTarget(name string, f Factory) {
	targetsMu.Lock()
	defer targetsMu.Unlock()
	targets[name] = f
}

// Targets returns the registered target names, sorted.
func Targets() []string {
	targetsMu.RLock()
	defer targetsMu.RUnlock()
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the emitter registered for target.
func New(target string, opts ...Option) (Emitter, error) {
	if target == "" {
		target = DefaultTarget
	}
	targetsMu.RLock()
	f, ok := targets[target]
	targetsMu.RUnlock()
	if !ok {
		return nil, &rzerrors.ConfigError{
			Option:  "target",
			Value:   target,
			Message: fmt.Sprintf("unknown emitter target (available: %v)", Targets()),
		}
	}
	return f(opts...)
}
