package compiler

import (
	"fmt"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/validation"
)

// unknownType marks a property whose rules could not be resolved.
const unknownType = "unknown"

// RuleReport describes one resolved rule of a field.
type RuleReport struct {
	Rule     string   `json:"rule" yaml:"rule"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
	Deferred bool     `json:"deferred,omitempty" yaml:"deferred,omitempty"`
}

// FieldReport describes one field of a schema, nested fields included.
type FieldReport struct {
	Path     string       `json:"path" yaml:"path"`
	Type     string       `json:"type" yaml:"type"`
	Required bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Nullable bool         `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Optional bool         `json:"optional,omitempty" yaml:"optional,omitempty"`
	Ref      string       `json:"ref,omitempty" yaml:"ref,omitempty"`
	Rules    []RuleReport `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// SchemaReport describes one extracted schema.
type SchemaReport struct {
	Name         string        `json:"name" yaml:"name"`
	Class        string        `json:"class" yaml:"class"`
	Kind         string        `json:"kind" yaml:"kind"`
	Dependencies []string      `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Fields       []FieldReport `json:"fields" yaml:"fields"`
}

// InspectResult is the resolved view of every schema in a compile run.
type InspectResult struct {
	Schemas      []SchemaReport `json:"schemas" yaml:"schemas"`
	Issues       []CompileIssue `json:"issues,omitempty" yaml:"issues,omitempty"`
	WarningCount int            `json:"warningCount" yaml:"warningCount"`
}

// Schema returns the report for the named schema, or nil.
func (r *InspectResult) Schema(name string) *SchemaReport {
	for i := range r.Schemas {
		if r.Schemas[i].Name == name {
			return &r.Schemas[i]
		}
	}
	return nil
}

// Field returns the report for the dotted field path, or nil.
func (s SchemaReport) Field(path string) *FieldReport {
	for i := range s.Fields {
		if s.Fields[i].Path == path {
			return &s.Fields[i]
		}
	}
	return nil
}

// InspectWithOptions compiles with the given options and returns the
// resolved rules of every schema instead of generated code. It accepts the
// same options as CompileWithOptions.
func InspectWithOptions(opts ...Option) (*InspectResult, error) {
	result, err := CompileWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	return Inspect(result), nil
}

// Inspect builds the resolved view of a finished compile.
func Inspect(result *CompileResult) *InspectResult {
	out := &InspectResult{
		Schemas:      make([]SchemaReport, 0, len(result.Schemas)),
		Issues:       result.Issues,
		WarningCount: result.WarningCount,
	}
	for _, s := range result.Schemas {
		out.Schemas = append(out.Schemas, schemaReport(s))
	}
	return out
}

func schemaReport(s *extractor.ExtractedSchema) SchemaReport {
	rep := SchemaReport{
		Name:         s.Name,
		Class:        s.Class,
		Kind:         string(s.Kind),
		Dependencies: s.Dependencies,
		Fields:       make([]FieldReport, 0, len(s.Properties)),
	}
	for _, p := range s.Properties {
		if p.Validations == nil {
			rep.Fields = append(rep.Fields, FieldReport{
				Path:     p.Name,
				Type:     unknownType,
				Optional: p.Optional,
			})
			continue
		}
		p.Validations.Walk(func(set *validation.ResolvedValidationSet) {
			f := fieldReport(set)
			if set == p.Validations {
				f.Optional = p.Optional
			}
			rep.Fields = append(rep.Fields, f)
		})
	}
	return rep
}

func fieldReport(set *validation.ResolvedValidationSet) FieldReport {
	f := FieldReport{
		Path:     set.Path,
		Type:     string(set.Type),
		Required: set.IsFieldRequired(),
		Nullable: set.IsNullable(),
		Ref:      set.Ref,
	}
	for _, v := range set.Validations {
		f.Rules = append(f.Rules, RuleReport{
			Rule:     v.Rule,
			Params:   v.Params,
			Message:  v.Message,
			Deferred: validation.IsDeferredRule(v.Rule),
		})
	}
	return f
}

// String renders a short "Schema.path: type" listing, one field per line.
func (s SchemaReport) String() string {
	out := fmt.Sprintf("%s (%s, %s)\n", s.Name, s.Class, s.Kind)
	for _, f := range s.Fields {
		out += fmt.Sprintf("  %s: %s", f.Path, f.Type)
		if f.Ref != "" {
			out += " -> " + f.Ref
		}
		out += "\n"
	}
	return out
}
