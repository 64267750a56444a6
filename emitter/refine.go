package emitter

import (
	"strings"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/internal/jsutil"
	"github.com/erraggy/rulezod/ruletree"
	"github.com/erraggy/rulezod/validation"
)

// dataVar is the refinement callback's name for the validated object.
const dataVar = "data"

// refinement is one cross-field check of a superRefine block.
type refinement struct {
	Condition string
	Message   string
	Path      []string
}

// refineBuilder synthesizes the cross-field checks of one schema.
type refineBuilder struct {
	fields map[string]*validation.ResolvedValidationSet
	skip   func(set *validation.ResolvedValidationSet, rule, reason string)
}

func newRefineBuilder(s *extractor.ExtractedSchema, skip func(*validation.ResolvedValidationSet, string, string)) *refineBuilder {
	b := &refineBuilder{fields: make(map[string]*validation.ResolvedValidationSet), skip: skip}
	for _, p := range s.Properties {
		if p.Validations == nil {
			continue
		}
		p.Validations.Walk(func(set *validation.ResolvedValidationSet) {
			b.fields[set.Path] = set
		})
	}
	return b
}

// refinements returns the checks for every deferred rule of the schema, in
// property order. Deferred rules of fields under an array wildcard are passed
// to skip instead: their index is not known statically.
func refinements(s *extractor.ExtractedSchema, skip func(*validation.ResolvedValidationSet, string, string)) []refinement {
	b := newRefineBuilder(s, skip)
	var out []refinement
	for _, p := range s.Properties {
		if p.Validations == nil {
			continue
		}
		p.Validations.Walk(func(set *validation.ResolvedValidationSet) {
			wildcard := ruletree.HasWildcard(set.Path)
			for _, v := range set.Validations {
				if !validation.IsDeferredRule(v.Rule) {
					continue
				}
				if wildcard {
					skip(set, v.Rule, "field is under a wildcard")
					continue
				}
				cond, ok := b.condition(set, v)
				if !ok {
					continue
				}
				out = append(out, refinement{
					Condition: cond,
					Message:   v.Message,
					Path:      strings.Split(set.Path, "."),
				})
			}
		})
	}
	return out
}

func (b *refineBuilder) condition(set *validation.ResolvedValidationSet, v validation.ResolvedValidation) (string, bool) {
	others := v.Params
	switch v.Rule {
	case "confirmed":
		others = []string{set.Path + "_confirmation"}
		if p := v.Param(0); p != "" {
			others = []string{p}
		}
	case "required_if", "required_unless", "same":
		if len(others) > 1 {
			others = others[:1]
		}
	}
	if len(others) == 0 {
		b.skip(set, v.Rule, "missing the other field")
		return "", false
	}
	for _, o := range others {
		if ruletree.HasWildcard(o) {
			b.skip(set, v.Rule, "depends on a wildcard field")
			return "", false
		}
	}

	self := b.empty(set.Path, set.Type)
	switch v.Rule {
	case "required_if", "required_unless":
		if len(v.Params) < 2 {
			b.skip(set, v.Rule, "needs a field and at least one value")
			return "", false
		}
		match := matches(v.Params[0], v.Params[1:])
		if v.Rule == "required_unless" {
			match = "!(" + match + ")"
		}
		return match + " && " + self, true
	case "required_with":
		return "(" + b.join(others, false, " || ") + ") && " + self, true
	case "required_with_all":
		return "(" + b.join(others, false, " && ") + ") && " + self, true
	case "required_without":
		return "(" + b.join(others, true, " || ") + ") && " + self, true
	case "required_without_all":
		return "(" + b.join(others, true, " && ") + ") && " + self, true
	case "same", "confirmed":
		return jsutil.Accessor(dataVar, set.Path) + " !== " + jsutil.Accessor(dataVar, others[0]), true
	}
	b.skip(set, v.Rule, "no cross-field check for this rule")
	return "", false
}

// join combines the emptiness (or presence) predicates of fields.
func (b *refineBuilder) join(fields []string, empty bool, op string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		typ := validation.TypeTag("")
		if set, ok := b.fields[f]; ok {
			typ = set.Type
		}
		parts[i] = b.empty(f, typ)
		if !empty {
			parts[i] = "!" + parts[i]
		}
	}
	return strings.Join(parts, op)
}

// empty returns the predicate deciding whether the field at path holds no
// value. Zero and false are values; blank strings and empty arrays are not.
func (b *refineBuilder) empty(path string, typ validation.TypeTag) string {
	acc := jsutil.Accessor(dataVar, path)
	switch {
	case typ == validation.TypeArray:
		return "(" + acc + " == null || " + acc + ".length === 0)"
	case typ.IsStringLike():
		return "(" + acc + " == null || String(" + acc + ").trim() === '')"
	case typ == "":
		return "(" + acc + " == null || " + acc + " === '')"
	}
	return "(" + acc + " == null)"
}

// matches compares the other field's value with one or more literals.
func matches(other string, values []string) string {
	acc := "String(" + jsutil.Accessor(dataVar, other) + ")"
	if len(values) == 1 {
		return acc + " === " + jsutil.Quote(values[0])
	}
	return jsutil.List(values) + ".includes(" + acc + ")"
}
