package compiler

import (
	"fmt"

	"github.com/erraggy/rulezod/emitter"
	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/manifest"
	"github.com/erraggy/rulezod/rzerrors"
	"github.com/erraggy/rulezod/validation"
)

// Option is a function that configures a compile operation
type Option func(*compileConfig) error

// compileConfig holds configuration for a compile operation
type compileConfig struct {
	// Input source (exactly one must be set)
	classes      []*extractor.Class
	manifestPath *string
	manifestData []byte
	values       []any

	// Emission options
	target         string
	style          emitter.Style
	namespace      string
	importAppTypes bool
	appTypesPath   string
	schemaSuffix   string
	splitFiles     bool
	outputFile     string

	// Extension points
	extractors []string
	handlers   []string

	// Messages
	oracle          validation.MessageOracle
	defaultMessages bool

	// Reporting
	strictMode  bool
	includeInfo bool
	logger      logging.Logger
}

// CompileWithOptions compiles classes into schema code using functional
// options. Exactly one input source must be given.
//
// Example:
//
//	result, err := compiler.CompileWithOptions(
//	    compiler.WithManifestPath("classes.yaml"),
//	    compiler.WithOutputStyle(emitter.StyleNamespace),
//	    compiler.WithSplitFiles(true),
//	)
func CompileWithOptions(opts ...Option) (*CompileResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: invalid options: %w", err)
	}

	c := &Compiler{
		Target:          cfg.target,
		Style:           cfg.style,
		Namespace:       cfg.namespace,
		ImportAppTypes:  cfg.importAppTypes,
		AppTypesPath:    cfg.appTypesPath,
		SchemaSuffix:    cfg.schemaSuffix,
		Extractors:      cfg.extractors,
		Handlers:        cfg.handlers,
		Oracle:          cfg.oracle,
		DefaultMessages: cfg.defaultMessages,
		SplitFiles:      cfg.splitFiles,
		OutputFile:      cfg.outputFile,
		StrictMode:      cfg.strictMode,
		IncludeInfo:     cfg.includeInfo,
		Logger:          cfg.logger,
	}

	// Route to appropriate compile method based on input source
	switch {
	case cfg.manifestPath != nil:
		return c.CompileFile(*cfg.manifestPath)
	case cfg.manifestData != nil:
		classes, err := manifest.Parse(cfg.manifestData, manifest.FormatUnknown)
		if err != nil {
			return nil, fmt.Errorf("compiler: failed to parse manifest: %w", err)
		}
		return c.Compile(classes)
	case cfg.values != nil:
		classes, err := extractor.Discover(cfg.values...)
		if err != nil {
			return nil, fmt.Errorf("compiler: %w", err)
		}
		return c.Compile(classes)
	}
	return c.Compile(cfg.classes)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*compileConfig, error) {
	cfg := &compileConfig{
		// Set defaults
		target:          emitter.DefaultTarget,
		style:           emitter.StyleModule,
		namespace:       emitter.DefaultNamespace,
		appTypesPath:    emitter.DefaultAppTypesPath,
		schemaSuffix:    extractor.DefaultSchemaSuffix,
		outputFile:      DefaultOutputFile,
		defaultMessages: true,
		includeInfo:     true,
		logger:          logging.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one input source is specified
	sourceCount := 0
	if cfg.classes != nil {
		sourceCount++
	}
	if cfg.manifestPath != nil {
		sourceCount++
	}
	if cfg.manifestData != nil {
		sourceCount++
	}
	if cfg.values != nil {
		sourceCount++
	}

	if sourceCount == 0 {
		return nil, &rzerrors.ConfigError{Option: "input", Message: "must specify an input source (use WithClasses, WithManifestPath, WithManifestData or WithValues)"}
	}
	if sourceCount > 1 {
		return nil, &rzerrors.ConfigError{Option: "input", Message: "must specify exactly one input source"}
	}

	return cfg, nil
}

// WithClasses specifies class descriptors as the input source
func WithClasses(classes ...*extractor.Class) Option {
	return func(cfg *compileConfig) error {
		cfg.classes = append(make([]*extractor.Class, 0, len(classes)), classes...)
		return nil
	}
}

// WithManifestPath specifies a YAML or JSON manifest file as the input source
func WithManifestPath(path string) Option {
	return func(cfg *compileConfig) error {
		cfg.manifestPath = &path
		return nil
	}
}

// WithManifestData specifies manifest content as the input source. The
// format is detected from the content.
func WithManifestData(data []byte) Option {
	return func(cfg *compileConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.manifestData = data
		return nil
	}
}

// WithValues specifies Go values as the input source. See extractor.Discover.
func WithValues(values ...any) Option {
	return func(cfg *compileConfig) error {
		cfg.values = append(make([]any, 0, len(values)), values...)
		return nil
	}
}

// WithTarget selects a registered emitter target
// Default: "zod"
func WithTarget(target string) Option {
	return func(cfg *compileConfig) error {
		cfg.target = target
		return nil
	}
}

// WithOutputStyle selects module exports or a namespace wrapper
// Default: emitter.StyleModule
func WithOutputStyle(style emitter.Style) Option {
	return func(cfg *compileConfig) error {
		if _, err := emitter.ParseStyle(string(style)); err != nil {
			return err
		}
		cfg.style = style
		return nil
	}
}

// WithNamespace sets the namespace identifier of namespace-style output
// Default: "Schemas"
func WithNamespace(ns string) Option {
	return func(cfg *compileConfig) error {
		if ns == "" {
			return &rzerrors.ConfigError{Option: "namespace", Message: "cannot be empty"}
		}
		cfg.namespace = ns
		return nil
	}
}

// WithAppTypes annotates data schemas with types imported from path. An
// empty path keeps the default.
func WithAppTypes(enabled bool, path string) Option {
	return func(cfg *compileConfig) error {
		cfg.importAppTypes = enabled
		if path != "" {
			cfg.appTypesPath = path
		}
		return nil
	}
}

// WithSchemaSuffix sets the suffix of generated schema names
// Default: "Schema"
func WithSchemaSuffix(suffix string) Option {
	return func(cfg *compileConfig) error {
		cfg.schemaSuffix = suffix
		return nil
	}
}

// WithExtractors enables custom extractors by registered name
func WithExtractors(names ...string) Option {
	return func(cfg *compileConfig) error {
		cfg.extractors = append(cfg.extractors, names...)
		return nil
	}
}

// WithHandlers enables custom type handlers by registered name
func WithHandlers(names ...string) Option {
	return func(cfg *compileConfig) error {
		cfg.handlers = append(cfg.handlers, names...)
		return nil
	}
}

// WithLocale selects the default message catalog for a BCP 47 locale
// Default: "en"
func WithLocale(locale string) Option {
	return func(cfg *compileConfig) error {
		o, err := oracleFor(locale)
		if err != nil {
			return &rzerrors.ConfigError{Option: "locale", Value: locale, Message: "invalid language tag", Cause: err}
		}
		cfg.oracle = o
		return nil
	}
}

// WithOracle sets the default message oracle
func WithOracle(o validation.MessageOracle) Option {
	return func(cfg *compileConfig) error {
		cfg.oracle = o
		return nil
	}
}

// WithDefaultMessages enables or disables default messages for fields
// without a custom message
// Default: true
func WithDefaultMessages(enabled bool) Option {
	return func(cfg *compileConfig) error {
		cfg.defaultMessages = enabled
		return nil
	}
}

// WithSplitFiles emits one file per schema plus an index file
// Default: false
func WithSplitFiles(enabled bool) Option {
	return func(cfg *compileConfig) error {
		cfg.splitFiles = enabled
		return nil
	}
}

// WithOutputFile names the single output file
// Default: "schemas.ts"
func WithOutputFile(name string) Option {
	return func(cfg *compileConfig) error {
		if name == "" {
			return &rzerrors.ConfigError{Option: "output_file", Message: "cannot be empty"}
		}
		cfg.outputFile = name
		return nil
	}
}

// WithStrictMode fails compilation on warnings
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *compileConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo keeps info-level issues in the result
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *compileConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(cfg *compileConfig) error {
		cfg.logger = logging.OrNop(l)
		return nil
	}
}
