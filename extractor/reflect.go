package extractor

import (
	"fmt"
	"reflect"
	"time"

	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/rzerrors"
)

// RuleProvider is implemented by request-style Go values.
type RuleProvider interface {
	Rules() rules.Map
}

// MessageProvider is implemented by values supplying custom messages.
type MessageProvider interface {
	Messages() map[string]string
}

var timeType = reflect.TypeOf(time.Time{})

// FromValue builds a class descriptor from a Go value. RuleProvider values
// become request-style classes; structs become data-style classes read from
// their field tags.
func FromValue(v any) (*Class, error) {
	classes, err := Discover(v)
	if err != nil {
		return nil, err
	}
	// Discover lists nested classes first; the value's own class is last.
	return classes[len(classes)-1], nil
}

// Discover builds class descriptors for values and every struct type they
// reference, nested classes first. Each type appears once.
func Discover(values ...any) ([]*Class, error) {
	d := &discovery{seen: make(map[reflect.Type]*Class)}
	for _, v := range values {
		if v == nil {
			return nil, &rzerrors.ConfigError{Option: "classes", Message: "nil value"}
		}
		if _, err := d.classFor(reflect.TypeOf(v), v); err != nil {
			return nil, err
		}
	}
	return d.order, nil
}

type discovery struct {
	seen  map[reflect.Type]*Class
	order []*Class
}

func (d *discovery) classFor(t reflect.Type, v any) (*Class, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if c, ok := d.seen[t]; ok {
		return c, nil
	}

	if v == nil {
		v = reflect.New(t).Interface()
	}
	if rp, ok := v.(RuleProvider); ok {
		c := &Class{Name: qualifiedName(t), Kind: KindRequest, Rules: rp.Rules}
		if mp, ok := v.(MessageProvider); ok {
			c.Messages = mp.Messages()
		}
		d.add(t, c)
		return c, nil
	}

	if t.Kind() != reflect.Struct {
		return nil, &rzerrors.ConfigError{Option: "classes", Value: t.String(), Message: "expected a struct or a RuleProvider"}
	}

	c := &Class{Name: qualifiedName(t), Kind: KindData}
	// Register before walking fields so self-references terminate.
	d.seen[t] = c
	if mp, ok := v.(MessageProvider); ok {
		c.Messages = mp.Messages()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		prop, ok, err := d.property(c, field)
		if err != nil {
			return nil, err
		}
		if ok {
			c.Properties = append(c.Properties, prop)
		}
	}
	d.order = append(d.order, c)
	return c, nil
}

func (d *discovery) add(t reflect.Type, c *Class) {
	d.seen[t] = c
	d.order = append(d.order, c)
}

// property converts one struct field.
func (d *discovery) property(c *Class, field reflect.StructField) (Property, bool, error) {
	name, jsonOpts, ok := fieldName(field)
	if !ok {
		return Property{}, false, nil
	}
	opts := parseSchemaTag(field.Tag.Get("schema"))
	if schemaName, ok := opts["name"]; ok {
		c.Schema = schemaName
	}

	p := Property{
		Name:     name,
		Optional: opts["optional"] == "true" || hasOmitempty(jsonOpts),
		Nullable: opts["nullable"] == "true",
	}
	if tag := field.Tag.Get("rules"); tag != "" {
		p.Rules = []any{tag}
	}
	if tag := field.Tag.Get("items"); tag != "" {
		p.ItemRules = []any{tag}
	}
	if ref, ok := opts["inherit"]; ok {
		inherit, valid := parseInherit(ref)
		if !valid {
			return Property{}, false, &rzerrors.ConfigError{
				Option:  "schema",
				Value:   ref,
				Message: fmt.Sprintf("invalid inherit reference on %s.%s, expected Class.property", c.Name, field.Name),
			}
		}
		p.Inherit = inherit
	}

	t := field.Type
	if t.Kind() == reflect.Pointer {
		p.Nullable = true
		t = t.Elem()
	}

	switch {
	case t == timeType:
		p.Type = "string"
		p.Rules = append([]any{"date"}, p.Rules...)
	case t.Kind() == reflect.Struct:
		nested, err := d.classFor(t, nil)
		if err != nil {
			return Property{}, false, err
		}
		p.Type = nested.Name
		p.Data = nested.Name
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		p.Type = "array"
		elem := t.Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct && elem != timeType {
			nested, err := d.classFor(elem, nil)
			if err != nil {
				return Property{}, false, err
			}
			p.CollectionOf = nested.Name
		} else if len(p.ItemRules) == 0 {
			if token := kindToken(elem); token != "" {
				p.ItemRules = []any{token}
			}
		}
	default:
		p.Type = kindType(t)
	}
	return p, true, nil
}

// kindType maps a scalar kind onto a declared property type.
func kindType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	}
	return ""
}

// kindToken is the rule token implied for array elements of kind t.
func kindToken(t reflect.Type) string {
	switch kindType(t) {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "int":
		return "integer"
	case "float":
		return "numeric"
	}
	return ""
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
