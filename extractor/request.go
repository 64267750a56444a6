package extractor

import (
	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/ruletree"
	"github.com/erraggy/rulezod/validation"
)

// RequestExtractor handles classes exposing a flat rule map.
type RequestExtractor struct{}

// Name implements Extractor.
func (RequestExtractor) Name() string { return "request" }

// Priority implements Extractor.
func (RequestExtractor) Priority() int { return 100 }

// CanHandle implements Extractor.
func (RequestExtractor) CanHandle(c *Class) bool {
	return c.Rules != nil && c.Kind != KindData
}

// Extract implements Extractor.
func (RequestExtractor) Extract(env Env, c *Class) (*ExtractedSchema, error) {
	name := env.SchemaName(c)
	entries := make([]ruletree.Entry, 0)
	for _, e := range c.Rules() {
		entries = append(entries, ruletree.Entry{Path: e.Path, Rules: rules.Normalize(e.Rule)})
	}

	resolver := env.Resolver(c, name)
	schema := &ExtractedSchema{Name: name, Class: c.Name, Kind: KindRequest}
	for _, set := range resolver.ResolveAll(entries) {
		schema.Properties = append(schema.Properties, newSchemaProperty(set))
	}
	return schema, nil
}

func newSchemaProperty(set *validation.ResolvedValidationSet) *SchemaProperty {
	return &SchemaProperty{
		Name:        set.Field,
		Optional:    !set.IsFieldRequired(),
		Validations: set,
	}
}
