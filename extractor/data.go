package extractor

import (
	"strings"

	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/ruletree"
	"github.com/erraggy/rulezod/rzerrors"
	"github.com/erraggy/rulezod/validation"
)

// DataExtractor handles classes with declared properties.
type DataExtractor struct{}

// Name implements Extractor.
func (DataExtractor) Name() string { return "data" }

// Priority implements Extractor.
func (DataExtractor) Priority() int { return 90 }

// CanHandle implements Extractor.
func (DataExtractor) CanHandle(c *Class) bool {
	return len(c.Properties) > 0 || c.Kind == KindData
}

// Extract implements Extractor.
func (DataExtractor) Extract(env Env, c *Class) (*ExtractedSchema, error) {
	name := env.SchemaName(c)
	schema := &ExtractedSchema{Name: name, Class: c.Name, Kind: KindData}

	var entries []ruletree.Entry
	for i := range c.Properties {
		p := &c.Properties[i]
		tokens, err := propertyTokens(env, c, p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ruletree.Entry{Path: p.Name, Rules: rules.Join(tokens)})
		if len(p.ItemRules) > 0 {
			entries = append(entries, ruletree.Entry{
				Path:  p.Name + "." + ruletree.Wildcard,
				Rules: rules.Normalize(p.ItemRules),
			})
		}
	}

	resolver := env.Resolver(c, name)
	for _, set := range resolver.ResolveAll(entries) {
		p, _ := c.Property(set.Field)
		if p != nil {
			linkReferences(env, schema, p, set)
		}
		prop := newSchemaProperty(set)
		if p != nil && p.Optional {
			prop.Optional = true
		}
		schema.Properties = append(schema.Properties, prop)
	}
	return schema, nil
}

// propertyTokens derives the rule tokens of a property: implied presence and
// type rules first, then inherited rules, then the property's own rules.
func propertyTokens(env Env, c *Class, p *Property) ([]string, error) {
	own := rules.NormalizeTokens(p.Rules)

	var inherited []string
	if p.Inherit != nil {
		var err error
		inherited, err = inheritedTokens(env, c, p, *p.Inherit, []string{c.Name + "." + p.Name})
		if err != nil {
			return nil, err
		}
	}

	explicit := append(append([]string{}, inherited...), own...)
	var implied []string
	if p.Nullable {
		implied = append(implied, "nullable")
	} else if !p.Optional && !hasPresenceRule(explicit) {
		implied = append(implied, "required")
	}
	if t := impliedTypeToken(p); t != "" {
		implied = append(implied, t)
	}

	return dedupe(append(implied, explicit...)), nil
}

// inheritedTokens follows an inheritance chain starting at target. c and p
// are the property that started the chain; chain holds the visited
// "Class.property" links.
func inheritedTokens(env Env, c *Class, p *Property, target Inherit, chain []string) ([]string, error) {
	link := target.String()
	for _, seen := range chain {
		if seen == link {
			return nil, &rzerrors.ReferenceError{
				Class:      c.Name,
				Property:   p.Name,
				Chain:      append(chain, link),
				IsCircular: true,
			}
		}
	}
	chain = append(chain, link)

	parent, ok := env.Lookup(target.Class)
	if !ok {
		return nil, &rzerrors.ReferenceError{Class: c.Name, Property: p.Name, Chain: chain, Message: "unknown class " + target.Class}
	}
	parentProp, ok := parent.Property(target.Property)
	if !ok {
		return nil, &rzerrors.ReferenceError{Class: c.Name, Property: p.Name, Chain: chain, Message: "unknown property " + link}
	}

	var out []string
	if parentProp.Inherit != nil {
		up, err := inheritedTokens(env, c, p, *parentProp.Inherit, chain)
		if err != nil {
			return nil, err
		}
		out = append(out, up...)
	}
	if t := impliedTypeToken(parentProp); t != "" {
		out = append(out, t)
	}
	return append(out, rules.NormalizeTokens(parentProp.Rules)...), nil
}

// linkReferences points data and collection properties at their schemas and
// records them as dependencies.
func linkReferences(env Env, schema *ExtractedSchema, p *Property, set *validation.ResolvedValidationSet) {
	switch {
	case p.Data != "":
		ref := referenceName(env, schema, p, p.Data)
		set.Type = validation.TypeObject
		set.Ref = ref
		schema.addDependency(ref)
	case p.CollectionOf != "":
		ref := referenceName(env, schema, p, p.CollectionOf)
		set.Type = validation.TypeArray
		if set.Items == nil {
			set.Items = &validation.ResolvedValidationSet{
				Field: ruletree.Wildcard,
				Path:  set.Path + "." + ruletree.Wildcard,
			}
		}
		set.Items.Type = validation.TypeObject
		set.Items.Ref = ref
		schema.addDependency(ref)
	}
}

func referenceName(env Env, schema *ExtractedSchema, p *Property, className string) string {
	if _, ok := env.Lookup(className); !ok {
		env.Warn(schema.Name+"."+p.Name, "", "referenced class %s is not part of this run", className)
	}
	return env.SchemaNameFor(className)
}

// impliedTypeToken maps a declared property type onto its rule token.
func impliedTypeToken(p *Property) string {
	if p.CollectionOf != "" {
		return "array"
	}
	if p.Data != "" {
		return ""
	}
	t := strings.ToLower(strings.TrimSpace(p.Type))
	switch {
	case t == "string":
		return "string"
	case t == "int" || t == "integer":
		return "integer"
	case t == "float" || t == "double" || t == "number" || t == "numeric":
		return "numeric"
	case t == "bool" || t == "boolean":
		return "boolean"
	case t == "array" || t == "list" || strings.HasPrefix(t, "[]"):
		return "array"
	}
	return ""
}

// hasPresenceRule reports whether explicit rules already decide presence.
func hasPresenceRule(tokens []string) bool {
	for _, t := range tokens {
		name := validation.NormalizeRuleName(rules.ParseToken(t).Name)
		switch {
		case name == "nullable", name == "sometimes", name == "present", name == "filled":
			return true
		case strings.HasPrefix(name, "required"):
			return true
		}
	}
	return false
}

func dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0:0]
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
