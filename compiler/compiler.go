package compiler

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"

	"github.com/erraggy/rulezod/emitter"
	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/handler"
	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/manifest"
	"github.com/erraggy/rulezod/validation"
)

// Severity indicates the severity level of a compile issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about compile choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates rules that were compiled less precisely
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates fields that could not be compiled faithfully
	SeverityError = severity.SeverityError
	// SeverityCritical indicates schemas that cannot be emitted correctly
	SeverityCritical = severity.SeverityCritical
)

// CompileIssue represents a single recoverable compile problem
type CompileIssue = issues.Issue

// DefaultOutputFile is the file name of single-file output.
const DefaultOutputFile = "schemas.ts"

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "schemas.ts", "UserSchema.ts")
	Name string
	// Content is the generated source
	Content []byte
}

// CompileResult contains the results of compiling classes into schemas
type CompileResult struct {
	// Files contains all generated files
	Files []GeneratedFile
	// Schemas contains the extracted schemas in class order
	Schemas []*extractor.ExtractedSchema
	// Target is the emitter target used
	Target string
	// Issues contains all recoverable problems
	Issues []CompileIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if compilation completed without critical issues
	Success bool
	// LoadTime is the time taken to load class descriptors
	LoadTime time.Duration
	// ExtractTime is the time taken to extract schemas
	ExtractTime time.Duration
	// EmitTime is the time taken to emit code
	EmitTime time.Duration
	// SchemaCount is the number of schemas emitted
	SchemaCount int
	// FieldCount is the number of top-level properties across all schemas
	FieldCount int
}

// HasCriticalIssues returns true if there are any critical issues
func (r *CompileResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *CompileResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *CompileResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Archive bundles the generated files as a txtar archive.
func (r *CompileResult) Archive() []byte {
	files := make([]emitter.File, len(r.Files))
	for i, f := range r.Files {
		files[i] = emitter.File{Name: f.Name, Content: f.Content}
	}
	return emitter.Archive(fmt.Sprintf("rulezod %s output: %d schema(s)", r.Target, r.SchemaCount), files)
}

// Report is the machine-readable summary of a compile run.
type Report struct {
	Target        string         `json:"target"`
	Success       bool           `json:"success"`
	Schemas       []string       `json:"schemas"`
	Files         []string       `json:"files"`
	FieldCount    int            `json:"fieldCount"`
	InfoCount     int            `json:"infoCount"`
	WarningCount  int            `json:"warningCount"`
	CriticalCount int            `json:"criticalCount"`
	Issues        []CompileIssue `json:"issues,omitempty"`
	LoadMillis    float64        `json:"loadMs"`
	ExtractMillis float64        `json:"extractMs"`
	EmitMillis    float64        `json:"emitMs"`
}

// Report summarizes the result.
func (r *CompileResult) Report() Report {
	rep := Report{
		Target:        r.Target,
		Success:       r.Success,
		Schemas:       make([]string, 0, len(r.Schemas)),
		Files:         make([]string, 0, len(r.Files)),
		FieldCount:    r.FieldCount,
		InfoCount:     r.InfoCount,
		WarningCount:  r.WarningCount,
		CriticalCount: r.CriticalCount,
		Issues:        r.Issues,
		LoadMillis:    millis(r.LoadTime),
		ExtractMillis: millis(r.ExtractTime),
		EmitMillis:    millis(r.EmitTime),
	}
	for _, s := range r.Schemas {
		rep.Schemas = append(rep.Schemas, s.Name)
	}
	for _, f := range r.Files {
		rep.Files = append(rep.Files, f.Name)
	}
	return rep
}

// ReportJSON returns the indented JSON form of Report.
func (r *CompileResult) ReportJSON() ([]byte, error) {
	return json.MarshalIndent(r.Report(), "", "  ")
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// Compiler turns class descriptors into schema code
type Compiler struct {
	// Target is the registered emitter target
	Target string

	// Style selects module exports or a namespace wrapper
	Style emitter.Style

	// Namespace is the namespace identifier for emitter.StyleNamespace
	Namespace string

	// ImportAppTypes annotates data schemas with the application's generated types
	ImportAppTypes bool

	// AppTypesPath is the import path of the application's generated types
	AppTypesPath string

	// SchemaSuffix is appended to class base names
	SchemaSuffix string

	// Extractors lists custom extractors registered with extractor.RegisterFactory
	Extractors []string

	// Handlers lists custom handlers registered with handler.RegisterFactory
	Handlers []string

	// Oracle supplies default validation messages. Nil selects the English
	// catalog.
	Oracle validation.MessageOracle

	// DefaultMessages fills fields without a custom message from Oracle
	DefaultMessages bool

	// SplitFiles emits one file per schema plus an index
	SplitFiles bool

	// OutputFile names the single output file
	OutputFile string

	// StrictMode fails compilation on warnings
	StrictMode bool

	// IncludeInfo keeps info-level issues in the result
	IncludeInfo bool

	// Logger receives debug and warning output
	Logger logging.Logger
}

// New creates a new Compiler instance with default settings
func New() *Compiler {
	return &Compiler{
		Target:          emitter.DefaultTarget,
		Style:           emitter.StyleModule,
		Namespace:       emitter.DefaultNamespace,
		AppTypesPath:    emitter.DefaultAppTypesPath,
		SchemaSuffix:    extractor.DefaultSchemaSuffix,
		OutputFile:      DefaultOutputFile,
		DefaultMessages: true,
		IncludeInfo:     true,
		Logger:          logging.NopLogger{},
	}
}

// CompileFile loads a manifest and compiles its classes.
func (c *Compiler) CompileFile(path string) (*CompileResult, error) {
	start := time.Now()
	classes, err := manifest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: failed to load manifest: %w", err)
	}
	return c.compile(classes, time.Since(start))
}

// Compile compiles already-loaded class descriptors.
func (c *Compiler) Compile(classes []*extractor.Class) (*CompileResult, error) {
	return c.compile(classes, 0)
}

func (c *Compiler) compile(classes []*extractor.Class, loadTime time.Duration) (*CompileResult, error) {
	logger := logging.OrNop(c.Logger)
	collector := &issues.Collector{}
	result := &CompileResult{
		Files:    make([]GeneratedFile, 0),
		Target:   c.Target,
		LoadTime: loadTime,
	}
	if result.Target == "" {
		result.Target = emitter.DefaultTarget
	}

	extractStart := time.Now()
	managerOpts := []extractor.ManagerOption{
		extractor.WithClasses(classes),
		extractor.WithSchemaSuffix(c.SchemaSuffix),
		extractor.WithLogger(logger),
		extractor.WithIssues(collector),
		extractor.WithCustomExtractors(c.Extractors...),
	}
	if c.Oracle != nil {
		managerOpts = append(managerOpts, extractor.WithOracle(c.Oracle))
	}
	if !c.DefaultMessages {
		managerOpts = append(managerOpts, extractor.WithoutDefaultMessages())
	}
	mgr, err := extractor.NewManager(managerOpts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	schemas, err := mgr.ExtractAll(classes)
	if err != nil {
		return nil, fmt.Errorf("compiler: extraction failed: %w", err)
	}
	result.Schemas = schemas
	result.ExtractTime = time.Since(extractStart)

	emitStart := time.Now()
	reg, err := handler.NewRegistry(
		handler.WithLogger(logger),
		handler.WithIssues(collector),
		handler.WithCustomHandlers(c.Handlers...),
	)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	emitterOpts := []emitter.Option{
		emitter.WithStyle(c.Style),
		emitter.WithAppTypes(c.ImportAppTypes, c.AppTypesPath),
		emitter.WithSchemaSuffix(c.SchemaSuffix),
		emitter.WithRegistry(reg),
		emitter.WithLogger(logger),
		emitter.WithIssues(collector),
	}
	if c.Namespace != "" {
		emitterOpts = append(emitterOpts, emitter.WithNamespace(c.Namespace))
	}
	em, err := emitter.New(result.Target, emitterOpts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	if c.SplitFiles {
		files, err := em.EmitFiles(schemas)
		if err != nil {
			return nil, fmt.Errorf("compiler: emit failed: %w", err)
		}
		for _, f := range files {
			result.Files = append(result.Files, GeneratedFile{Name: f.Name, Content: f.Content})
		}
	} else {
		code, err := em.Emit(schemas)
		if err != nil {
			return nil, fmt.Errorf("compiler: emit failed: %w", err)
		}
		name := c.OutputFile
		if name == "" {
			name = DefaultOutputFile
		}
		result.Files = append(result.Files, GeneratedFile{Name: name, Content: []byte(code)})
	}
	result.EmitTime = time.Since(emitStart)

	result.SchemaCount = len(schemas)
	for _, s := range schemas {
		result.FieldCount += len(s.Properties)
	}
	result.Issues = collector.Issues()
	if result.Issues == nil {
		result.Issues = make([]CompileIssue, 0)
	}
	c.updateCounts(result)
	result.Success = result.CriticalCount == 0

	logger.Debug("compiled schemas",
		"schemas", result.SchemaCount,
		"fields", result.FieldCount,
		"warnings", result.WarningCount,
		"elapsed", result.ExtractTime+result.EmitTime,
	)

	// In strict mode, fail on any warning
	if c.StrictMode && (result.CriticalCount > 0 || result.WarningCount > 0) {
		result.Success = false
		return result, fmt.Errorf("compiler: compilation failed in strict mode: %d critical issue(s), %d warning(s)",
			result.CriticalCount, result.WarningCount)
	}

	if !c.IncludeInfo {
		filtered := make([]CompileIssue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
		result.InfoCount = 0
	}

	return result, nil
}

// updateCounts updates the issue counts in the result
func (c *Compiler) updateCounts(result *CompileResult) {
	info, warnings, critical := issues.Counts(result.Issues)
	result.InfoCount = info
	result.WarningCount = warnings
	result.CriticalCount = critical
}

// oracleFor returns the catalog oracle for a BCP 47 locale.
func oracleFor(locale string) (validation.MessageOracle, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	return validation.NewCatalogOracle(tag), nil
}
