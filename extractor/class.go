package extractor

import (
	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/validation"
)

// Kind is the coarse style of a class.
type Kind string

const (
	// KindRequest is a class exposing a flat rule map.
	KindRequest Kind = "request"
	// KindData is a class whose properties carry their own rules.
	KindData Kind = "data"
)

// Class describes one annotated application class.
type Class struct {
	// Name is the qualified class name, e.g. App\Http\Requests\StoreUserRequest.
	Name string `json:"name" yaml:"name"`
	// Schema overrides the generated schema name.
	Schema string `json:"schema,omitempty" yaml:"schema,omitempty"`
	// Kind is the class style. Empty means inferred from the other fields.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Rules returns the flat rule map of a request-style class.
	Rules func() rules.Map `json:"-" yaml:"-"`
	// Messages holds custom messages keyed by "field.rule" or "rule".
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	// Properties are the declared properties of a data-style class.
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// EffectiveKind returns Kind, or the kind implied by the class contents.
func (c *Class) EffectiveKind() Kind {
	if c.Kind != "" {
		return c.Kind
	}
	if c.Rules != nil {
		return KindRequest
	}
	return KindData
}

// Property finds a declared property by name.
func (c *Class) Property(name string) (*Property, bool) {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i], true
		}
	}
	return nil, false
}

// Inherit references a property of another class whose rules are reused.
type Inherit struct {
	Class    string `json:"class" yaml:"class"`
	Property string `json:"property" yaml:"property"`
}

// String returns "Class.property".
func (i Inherit) String() string {
	return i.Class + "." + i.Property
}

// Property is one declared property of a data-style class.
type Property struct {
	Name string `json:"name" yaml:"name"`
	// Type is the declared type: string, int, float, bool, array or a class name.
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Rules are the property's own rules.
	Rules []any `json:"rules,omitempty" yaml:"rules,omitempty"`
	// ItemRules apply to every element of an array property.
	ItemRules []any `json:"itemRules,omitempty" yaml:"itemRules,omitempty"`
	// Data names a nested data class.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`
	// CollectionOf names the data class of collection elements.
	CollectionOf string `json:"collectionOf,omitempty" yaml:"collectionOf,omitempty"`
	// Inherit reuses the rules of another class's property.
	Inherit *Inherit `json:"inherit,omitempty" yaml:"inherit,omitempty"`
}

// SchemaProperty is one top-level field of an extracted schema.
type SchemaProperty struct {
	Name        string                            `json:"name" yaml:"name"`
	Optional    bool                              `json:"optional" yaml:"optional"`
	Validations *validation.ResolvedValidationSet `json:"validations" yaml:"validations"`
	// Node caches the built schema node.
	Node *builder.Node `json:"-" yaml:"-"`
}

// ExtractedSchema is the named schema produced from one class.
type ExtractedSchema struct {
	Name       string            `json:"name" yaml:"name"`
	Properties []*SchemaProperty `json:"properties" yaml:"properties"`
	// Dependencies are the names of schemas this schema references.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// Class is the qualified source class name.
	Class string `json:"class" yaml:"class"`
	Kind  Kind   `json:"kind" yaml:"kind"`
}

// Property returns the named property, or nil.
func (s *ExtractedSchema) Property(name string) *SchemaProperty {
	for _, p := range s.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *ExtractedSchema) addDependency(name string) {
	if name == "" || name == s.Name {
		return
	}
	for _, d := range s.Dependencies {
		if d == name {
			return
		}
	}
	s.Dependencies = append(s.Dependencies, name)
}
