package emitter

import (
	"fmt"
	"strings"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/internal/jsutil"
	"github.com/erraggy/rulezod/internal/naming"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/validation"
)

// ZodEmitter emits TypeScript source declaring Zod schemas.
type ZodEmitter struct {
	cfg *config
}

// NewZod returns a Zod emitter.
func NewZod(opts ...Option) (*ZodEmitter, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &ZodEmitter{cfg: cfg}, nil
}

// Name implements Emitter.
func (e *ZodEmitter) Name() string { return "zod" }

// Emit returns one TypeScript module declaring schemas in dependency order.
func (e *ZodEmitter) Emit(schemas []*extractor.ExtractedSchema) (string, error) {
	ordered := Order(schemas, e.cfg.logger, e.cfg.issues)
	known := knownNames(ordered)
	declared := make(map[string]bool, len(ordered))

	decls := make([]string, 0, len(ordered))
	annotated := false
	for _, s := range ordered {
		d, err := e.declaration(s, known, declared)
		if err != nil {
			return "", err
		}
		annotated = annotated || e.annotate(s)
		decls = append(decls, d)
		declared[s.Name] = true
	}

	data := fileData{Body: strings.Join(decls, "\n\n")}
	if annotated {
		data.Imports = append(data.Imports, e.appTypesImport())
	}
	if e.cfg.style == StyleNamespace {
		data.Namespace = e.cfg.namespace
	}
	e.cfg.logger.Debug("emitted schemas", "count", len(ordered), "style", e.cfg.style)
	return executeTemplate("file", data)
}

// EmitFiles returns one module per schema, importing the schemas it
// references, and an index.ts re-exporting all of them. The wrapping style
// is always module.
func (e *ZodEmitter) EmitFiles(schemas []*extractor.ExtractedSchema) ([]File, error) {
	ordered := Order(schemas, e.cfg.logger, e.cfg.issues)
	known := knownNames(ordered)
	declared := make(map[string]bool, len(ordered))

	files := make([]File, 0, len(ordered)+1)
	names := make([]string, 0, len(ordered))
	for _, s := range ordered {
		d, err := e.declaration(s, known, declared)
		if err != nil {
			return nil, err
		}
		declared[s.Name] = true

		data := fileData{Body: d}
		for _, dep := range s.Dependencies {
			if known[dep] && dep != s.Name {
				data.Imports = append(data.Imports, "import { "+dep+" } from "+jsutil.Quote("./"+dep)+";")
			}
		}
		if e.annotate(s) {
			data.Imports = append(data.Imports, e.appTypesImport())
		}
		content, err := executeTemplate("file", data)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: s.Name + ".ts", Content: []byte(content)})
		names = append(names, s.Name)
	}

	index, err := executeTemplate("index", names)
	if err != nil {
		return nil, err
	}
	files = append(files, File{Name: "index.ts", Content: []byte(index)})
	return files, nil
}

// declaration renders the export statements of one schema.
func (e *ZodEmitter) declaration(s *extractor.ExtractedSchema, known, declared map[string]bool) (string, error) {
	obj, err := e.cfg.registry.BuildSchema(s)
	if err != nil {
		return "", err
	}

	r := &renderer{
		known:    known,
		declared: declared,
		unknownRef: func(name string) {
			e.cfg.logger.Warn("reference to unknown schema", "schema", s.Name, "ref", name)
			e.cfg.issues.Addf(severity.SeverityWarning, s.Name, "", "references %s, which was not extracted; emitted as any", name)
		},
	}
	expr := r.node(obj, 0)

	checks := refinements(s, func(set *validation.ResolvedValidationSet, rule, reason string) {
		e.cfg.issues.Addf(severity.SeverityInfo, s.Name+"."+set.Path, rule, "cross-field check skipped: %s", reason)
	})
	if len(checks) > 0 {
		block, err := executeTemplate("refine", refineData{Var: dataVar, Checks: checks})
		if err != nil {
			return "", fmt.Errorf("emitter: refinement of %s: %w", s.Name, err)
		}
		expr += block
	}

	d := declData{Name: s.Name, TypeName: e.typeName(s.Name), Expr: expr}
	if e.annotate(s) {
		d.Annotation = "z.ZodType<" + naming.ClassDottedName(s.Class) + ">"
	}
	return executeTemplate("decl", d)
}

// annotate reports whether the schema is typed with an imported app type.
// Only data classes under the App namespace have generated types.
func (e *ZodEmitter) annotate(s *extractor.ExtractedSchema) bool {
	return e.cfg.importAppTypes && s.Kind == extractor.KindData &&
		strings.HasPrefix(naming.ClassDottedName(s.Class), appNamespace+".")
}

const appNamespace = "App"

func (e *ZodEmitter) appTypesImport() string {
	return "import type { " + appNamespace + " } from " + jsutil.Quote(e.cfg.appTypesPath) + ";"
}

// typeName derives the inferred type name from a schema name:
// UserSchema becomes User.
func (e *ZodEmitter) typeName(schema string) string {
	name := strings.TrimSuffix(schema, e.cfg.suffix)
	if name == "" || name == schema {
		return schema + "Type"
	}
	return name
}

func knownNames(schemas []*extractor.ExtractedSchema) map[string]bool {
	known := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		known[s.Name] = true
	}
	return known
}
