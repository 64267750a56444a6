package extractor

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/internal/naming"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/rzerrors"
	"github.com/erraggy/rulezod/validation"
)

// DefaultSchemaSuffix is appended to class base names to form schema names.
const DefaultSchemaSuffix = "Schema"

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]func() any)
)

// RegisterFactory makes a custom extractor available under name. The factory
// result must implement Extractor; this is checked when a manager enables
// the name. Registering the same name twice replaces the earlier factory.
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
	ex  Extractor
	seq int
}

// Manager selects extractors for classes and caches extracted schemas for
// the current run.
type Manager struct {
	extractors []registered
	nextSeq    int

	classes   map[string]*Class
	processed map[string]*ExtractedSchema

	suffix   string
	oracle   validation.MessageOracle
	logger   logging.Logger
	issues   *issues.Collector
	custom   []string
	builtins bool
	silent   bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClasses makes classes available for inheritance and reference lookups.
func WithClasses(classes []*Class) ManagerOption {
	return func(m *Manager) {
		for _, c := range classes {
			m.classes[c.Name] = c
		}
	}
}

// WithSchemaSuffix sets the suffix of generated schema names.
func WithSchemaSuffix(suffix string) ManagerOption {
	return func(m *Manager) { m.suffix = suffix }
}

// WithOracle sets the default message oracle used by resolvers. The English
// catalog oracle is used when none is set.
func WithOracle(o validation.MessageOracle) ManagerOption {
	return func(m *Manager) { m.oracle = o }
}

// WithoutDefaultMessages leaves fields without a custom message with a null
// message instead of consulting the oracle.
func WithoutDefaultMessages() ManagerOption {
	return func(m *Manager) { m.silent = true }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logging.OrNop(l) }
}

// WithIssues sets the collector for recoverable problems.
func WithIssues(c *issues.Collector) ManagerOption {
	return func(m *Manager) { m.issues = c }
}

// WithCustomExtractors enables extractors registered with RegisterFactory.
func WithCustomExtractors(names ...string) ManagerOption {
	return func(m *Manager) { m.custom = append(m.custom, names...) }
}

// WithoutBuiltins skips registration of the request and data extractors.
func WithoutBuiltins() ManagerOption {
	return func(m *Manager) { m.builtins = false }
}

// NewManager returns a manager with the built-in extractors and any enabled
// custom extractors. It fails with a *rzerrors.ConfigError when a custom
// extractor name is unknown or its factory does not produce an Extractor.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		classes:   make(map[string]*Class),
		processed: make(map[string]*ExtractedSchema),
		suffix:    DefaultSchemaSuffix,
		logger:    logging.NopLogger{},
		builtins:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.oracle == nil {
		m.oracle = validation.NewCatalogOracle(language.English)
	}

	if m.builtins {
		m.Register(RequestExtractor{})
		m.Register(DataExtractor{})
	}
	for _, name := range m.custom {
		factory, ok := lookupFactory(name)
		if !ok {
			return nil, &rzerrors.ConfigError{Option: "extractors", Value: name, Message: "extractor is not registered"}
		}
		ex, ok := factory().(Extractor)
		if !ok {
			return nil, &rzerrors.ConfigError{Option: "extractors", Value: name, Message: "factory does not produce an Extractor"}
		}
		m.Register(ex)
		m.logger.Debug("registered custom extractor", "name", name, "priority", ex.Priority())
	}
	return m, nil
}

// Register adds an extractor. Extractors are tried by descending priority;
// equal priorities keep registration order.
func (m *Manager) Register(ex Extractor) {
	m.extractors = append(m.extractors, registered{ex: ex, seq: m.nextSeq})
	m.nextSeq++
	sort.SliceStable(m.extractors, func(i, j int) bool {
		a, b := m.extractors[i], m.extractors[j]
		if a.ex.Priority() != b.ex.Priority() {
			return a.ex.Priority() > b.ex.Priority()
		}
		return a.seq < b.seq
	})
}

// Extractors returns the registered extractors in trial order.
func (m *Manager) Extractors() []Extractor {
	out := make([]Extractor, len(m.extractors))
	for i, r := range m.extractors {
		out[i] = r.ex
	}
	return out
}

// AddClass makes a class available for lookups.
func (m *Manager) AddClass(c *Class) {
	m.classes[c.Name] = c
}

// FindExtractor returns the first extractor that can handle c, or nil.
func (m *Manager) FindExtractor(c *Class) Extractor {
	for _, r := range m.extractors {
		if r.ex.CanHandle(c) {
			return r.ex
		}
	}
	return nil
}

// Extract extracts the schema of c. Results are cached by class name until
// Reset. It fails with a *rzerrors.ExtractionError when no extractor can
// handle the class.
func (m *Manager) Extract(c *Class) (*ExtractedSchema, error) {
	if c == nil {
		return nil, &rzerrors.ExtractionError{Message: "nil class"}
	}
	if s, ok := m.processed[c.Name]; ok {
		return s, nil
	}
	if _, known := m.classes[c.Name]; !known {
		m.classes[c.Name] = c
	}

	ex := m.FindExtractor(c)
	if ex == nil {
		return nil, &rzerrors.ExtractionError{Class: c.Name, Message: "no extractor can handle the class"}
	}

	schema, err := ex.Extract(m, c)
	if err != nil {
		return nil, &rzerrors.ExtractionError{Class: c.Name, Extractor: ex.Name(), Message: "extraction failed", Cause: err}
	}
	m.logger.Debug("extracted schema",
		"class", c.Name,
		"schema", schema.Name,
		"extractor", ex.Name(),
		"properties", len(schema.Properties),
		"dependencies", len(schema.Dependencies),
	)
	m.processed[c.Name] = schema
	return schema, nil
}

// ExtractAll extracts every class in order. Two distinct classes that
// resolve to the same schema name fail with a *rzerrors.ExtractionError; a
// class listed twice is extracted once.
func (m *Manager) ExtractAll(classes []*Class) ([]*ExtractedSchema, error) {
	for _, c := range classes {
		m.AddClass(c)
	}
	owners := make(map[string]string, len(classes))
	out := make([]*ExtractedSchema, 0, len(classes))
	for _, c := range classes {
		s, err := m.Extract(c)
		if err != nil {
			return nil, err
		}
		owner, seen := owners[s.Name]
		switch {
		case !seen:
			owners[s.Name] = c.Name
			out = append(out, s)
		case owner != c.Name:
			return nil, &rzerrors.ExtractionError{
				Class:     c.Name,
				Extractor: m.FindExtractor(c).Name(),
				Message:   fmt.Sprintf("schema name %s is already produced by %s", s.Name, owner),
			}
		}
	}
	return out, nil
}

// Processed returns the cached schema for a class name.
func (m *Manager) Processed(className string) (*ExtractedSchema, bool) {
	s, ok := m.processed[className]
	return s, ok
}

// Reset clears the per-run caches. Registered extractors are kept.
func (m *Manager) Reset() {
	m.processed = make(map[string]*ExtractedSchema)
	m.classes = make(map[string]*Class)
}

// Lookup implements Env.
func (m *Manager) Lookup(name string) (*Class, bool) {
	c, ok := m.classes[name]
	return c, ok
}

// SchemaName implements Env.
func (m *Manager) SchemaName(c *Class) string {
	if c.Schema != "" {
		return c.Schema
	}
	return m.SchemaNameFor(c.Name)
}

// SchemaNameFor implements Env.
func (m *Manager) SchemaNameFor(className string) string {
	if c, ok := m.classes[className]; ok && c.Schema != "" {
		return c.Schema
	}
	return naming.ToPascalCase(naming.ClassBaseName(className)) + m.suffix
}

// Resolver implements Env.
func (m *Manager) Resolver(c *Class, schema string) *validation.Resolver {
	oracle := m.oracle
	if m.silent {
		oracle = nil
	}
	return validation.NewResolver(
		validation.WithOracle(oracle),
		validation.WithMessages(c.Messages),
		validation.WithLogger(m.logger.With("schema", schema)),
		validation.WithIssues(m.issues),
		validation.WithScope(schema),
	)
}

// Logger implements Env.
func (m *Manager) Logger() logging.Logger {
	return m.logger
}

// Warn implements Env.
func (m *Manager) Warn(path, rule, format string, args ...any) {
	m.logger.Warn(fmt.Sprintf(format, args...), "path", path)
	m.issues.Addf(severity.SeverityWarning, path, rule, format, args...)
}

var _ Env = (*Manager)(nil)
