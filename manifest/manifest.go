package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/rzerrors"
)

// Format is the encoding of a manifest.
type Format string

const (
	// FormatYAML indicates a YAML manifest
	FormatYAML Format = "yaml"
	// FormatJSON indicates a JSON manifest
	FormatJSON Format = "json"
	// FormatUnknown lets Parse detect the format from the content
	FormatUnknown Format = "unknown"
)

// DetectFormat returns the format implied by a file extension.
func DetectFormat(path string) Format {
	switch filepath.Ext(path) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatUnknown
}

// detectFormatFromContent treats content starting with '{' or '[' as JSON.
func detectFormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and parses the manifest at path.
func Load(path string) ([]*extractor.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rzerrors.ManifestError{Path: path, Message: "cannot read file", Cause: err}
	}
	return parse(data, DetectFormat(path), path)
}

// Parse decodes manifest data. FormatUnknown detects the format from the
// content.
func Parse(data []byte, format Format) ([]*extractor.Class, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, source string) ([]*extractor.Class, error) {
	if format == FormatUnknown || format == "" {
		format = detectFormatFromContent(data)
	}

	var root *value
	var err error
	switch format {
	case FormatJSON:
		root, err = fromJSON(data)
	case FormatYAML:
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil {
			root, err = fromYAML(&node)
		}
	default:
		return nil, &rzerrors.ManifestError{Path: source, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, &rzerrors.ManifestError{Path: source, Message: "cannot decode " + string(format), Cause: err}
	}

	d := &decoder{source: source}
	return d.classes(root)
}

// decoder interprets a value tree as class descriptors.
type decoder struct {
	source string
}

func (d *decoder) fail(v *value, format string, args ...any) error {
	e := &rzerrors.ManifestError{Path: d.source, Message: fmt.Sprintf(format, args...)}
	if v != nil {
		e.Line = v.line
	}
	return e
}

func (d *decoder) classes(root *value) ([]*extractor.Class, error) {
	if root.isNull() {
		return nil, d.fail(nil, "manifest is empty")
	}
	list := root
	if root.kind == mapValue {
		var ok bool
		if list, ok = root.get("classes"); !ok {
			return nil, d.fail(root, "missing classes")
		}
	}

	var out []*extractor.Class
	switch list.kind {
	case listValue:
		for _, item := range list.items {
			c, err := d.class("", item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	case mapValue:
		for i, name := range list.keys {
			c, err := d.class(name, list.items[i])
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	default:
		return nil, d.fail(list, "classes must be a list or a mapping")
	}
	return out, nil
}

var classKeys = keySet("name", "schema", "kind", "rules", "messages", "properties")

func (d *decoder) class(name string, v *value) (*extractor.Class, error) {
	if v.kind != mapValue {
		return nil, d.fail(v, "class must be a mapping, got a %s", v.describe())
	}
	if err := d.checkKeys(v, classKeys, "class"); err != nil {
		return nil, err
	}

	c := &extractor.Class{Name: name}
	if n, ok := v.get("name"); ok {
		s, err := n.str()
		if err != nil {
			return nil, d.fail(n, "name: %v", err)
		}
		c.Name = s
	}
	if c.Name == "" {
		return nil, d.fail(v, "class without a name")
	}
	if s, ok := v.get("schema"); ok {
		schema, err := s.str()
		if err != nil {
			return nil, d.fail(s, "class %s: schema: %v", c.Name, err)
		}
		c.Schema = schema
	}
	if k, ok := v.get("kind"); ok {
		s, err := k.str()
		if err != nil {
			return nil, d.fail(k, "class %s: kind: %v", c.Name, err)
		}
		switch extractor.Kind(s) {
		case extractor.KindRequest, extractor.KindData, "":
			c.Kind = extractor.Kind(s)
		default:
			return nil, d.fail(k, "class %s: kind must be request or data, got %q", c.Name, s)
		}
	}

	if r, ok := v.get("rules"); ok {
		m, err := d.ruleMap(c.Name, r)
		if err != nil {
			return nil, err
		}
		c.Rules = func() rules.Map { return m }
	}
	if m, ok := v.get("messages"); ok {
		msgs, err := d.messages(c.Name, m)
		if err != nil {
			return nil, err
		}
		c.Messages = msgs
	}
	if p, ok := v.get("properties"); ok {
		props, err := d.properties(c.Name, p)
		if err != nil {
			return nil, err
		}
		c.Properties = props
	}
	return c, nil
}

func (d *decoder) ruleMap(class string, v *value) (rules.Map, error) {
	if v.kind != mapValue {
		return nil, d.fail(v, "class %s: rules must be a mapping of field paths", class)
	}
	m := make(rules.Map, 0, len(v.keys))
	for i, path := range v.keys {
		r, err := toRule(v.items[i])
		if err != nil {
			return nil, d.fail(v.items[i], "class %s: rules of %s: %v", class, path, err)
		}
		m = append(m, rules.Entry{Path: path, Rule: r})
	}
	return m, nil
}

func (d *decoder) messages(class string, v *value) (map[string]string, error) {
	if v.kind != mapValue {
		return nil, d.fail(v, "class %s: messages must be a mapping", class)
	}
	out := make(map[string]string, len(v.keys))
	for i, key := range v.keys {
		s, err := v.items[i].str()
		if err != nil {
			return nil, d.fail(v.items[i], "class %s: message %s: %v", class, key, err)
		}
		out[key] = s
	}
	return out, nil
}

var propertyKeys = keySet(
	"name", "type", "nullable", "optional", "rules",
	"itemRules", "item_rules", "data", "collectionOf", "collection_of", "inherit",
)

func (d *decoder) properties(class string, v *value) ([]extractor.Property, error) {
	var out []extractor.Property
	switch v.kind {
	case listValue:
		for _, item := range v.items {
			p, err := d.property(class, "", item)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	case mapValue:
		for i, name := range v.keys {
			p, err := d.property(class, name, v.items[i])
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
	default:
		return nil, d.fail(v, "class %s: properties must be a list or a mapping", class)
	}
	return out, nil
}

func (d *decoder) property(class, name string, v *value) (extractor.Property, error) {
	p := extractor.Property{Name: name}
	if v.isNull() {
		return p, nil
	}
	if v.kind != mapValue {
		// shorthand: "name: required|string"
		if name == "" {
			return p, d.fail(v, "class %s: property without a name", class)
		}
		r, err := toRule(v)
		if err != nil {
			return p, d.fail(v, "class %s: property %s: %v", class, name, err)
		}
		p.Rules = []any{r}
		return p, nil
	}
	if err := d.checkKeys(v, propertyKeys, "property"); err != nil {
		return p, err
	}

	var err error
	str := func(key string, dst *string) {
		if x, ok := v.get(key); ok && err == nil {
			*dst, err = x.str()
		}
	}
	flag := func(key string, dst *bool) {
		if x, ok := v.get(key); ok && err == nil {
			*dst, err = x.boolean()
		}
	}
	str("name", &p.Name)
	str("type", &p.Type)
	str("data", &p.Data)
	flag("nullable", &p.Nullable)
	flag("optional", &p.Optional)
	if x, ok := v.lookup("collectionOf", "collection_of"); ok && err == nil {
		p.CollectionOf, err = x.str()
	}
	if err != nil {
		return p, d.fail(v, "class %s: property %s: %v", class, p.Name, err)
	}
	if p.Name == "" {
		return p, d.fail(v, "class %s: property without a name", class)
	}

	if x, ok := v.get("rules"); ok {
		if p.Rules, err = ruleList(x); err != nil {
			return p, d.fail(x, "class %s: property %s: %v", class, p.Name, err)
		}
	}
	if x, ok := v.lookup("itemRules", "item_rules"); ok {
		if p.ItemRules, err = ruleList(x); err != nil {
			return p, d.fail(x, "class %s: property %s: %v", class, p.Name, err)
		}
	}
	if x, ok := v.get("inherit"); ok {
		if p.Inherit, err = inherit(x); err != nil {
			return p, d.fail(x, "class %s: property %s: %v", class, p.Name, err)
		}
	}
	return p, nil
}

func (d *decoder) checkKeys(v *value, allowed map[string]bool, what string) error {
	for _, k := range v.keys {
		if !allowed[k] {
			return d.fail(v, "unknown %s key %q", what, k)
		}
	}
	return nil
}

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}
