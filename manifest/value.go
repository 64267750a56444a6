package manifest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rulezod/rules"
)

type valueKind int

const (
	scalarValue valueKind = iota
	listValue
	mapValue
)

// value is a decoded manifest node. Mappings keep their key order, which is
// the authored order of rule paths and password constraints.
type value struct {
	kind   valueKind
	scalar any
	keys   []string
	items  []*value
	line   int
}

func (v *value) get(key string) (*value, bool) {
	if v == nil || v.kind != mapValue {
		return nil, false
	}
	for i, k := range v.keys {
		if k == key {
			return v.items[i], true
		}
	}
	return nil, false
}

// lookup returns the first present key among aliases.
func (v *value) lookup(aliases ...string) (*value, bool) {
	for _, a := range aliases {
		if x, ok := v.get(a); ok {
			return x, true
		}
	}
	return nil, false
}

func (v *value) isNull() bool {
	return v == nil || v.kind == scalarValue && v.scalar == nil
}

func (v *value) describe() string {
	switch v.kind {
	case listValue:
		return "list"
	case mapValue:
		return "mapping"
	}
	return "scalar"
}

func (v *value) str() (string, error) {
	if v.kind != scalarValue {
		return "", fmt.Errorf("expected a scalar, got a %s", v.describe())
	}
	if v.scalar == nil {
		return "", nil
	}
	return rules.Stringify(v.scalar), nil
}

func (v *value) boolean() (bool, error) {
	if v.kind != scalarValue {
		return false, fmt.Errorf("expected a boolean, got a %s", v.describe())
	}
	switch x := v.scalar.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(x)
	}
	return false, fmt.Errorf("expected a boolean, got %v", v.scalar)
}

func (v *value) integer() (int, error) {
	s, err := v.str()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// stringList returns a list of scalars, or a comma separated scalar, as strings.
func (v *value) stringList() ([]string, error) {
	if v.kind == scalarValue {
		s, err := v.str()
		if err != nil || s == "" {
			return nil, err
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
	if v.kind != listValue {
		return nil, fmt.Errorf("expected a list, got a %s", v.describe())
	}
	out := make([]string, 0, len(v.items))
	for _, item := range v.items {
		s, err := item.str()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// scalars returns a list of scalars as raw values for comparison parameters.
func (v *value) scalars() ([]any, error) {
	if v.kind == scalarValue {
		if v.scalar == nil {
			return nil, nil
		}
		return []any{v.scalar}, nil
	}
	if v.kind != listValue {
		return nil, fmt.Errorf("expected a list, got a %s", v.describe())
	}
	out := make([]any, 0, len(v.items))
	for _, item := range v.items {
		if item.kind != scalarValue {
			return nil, fmt.Errorf("expected a scalar, got a %s", item.describe())
		}
		out = append(out, item.scalar)
	}
	return out, nil
}

// fromYAML converts a YAML node tree.
func fromYAML(n *yaml.Node) (*value, error) {
	switch n.Kind {
	case 0:
		// empty input
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.ScalarNode:
		var s any
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &value{kind: scalarValue, scalar: s, line: n.Line}, nil
	case yaml.SequenceNode:
		v := &value{kind: listValue, line: n.Line}
		for _, c := range n.Content {
			item, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			v.items = append(v.items, item)
		}
		return v, nil
	case yaml.MappingNode:
		v := &value{kind: mapValue, line: n.Line}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			item, err := fromYAML(val)
			if err != nil {
				return nil, err
			}
			v.keys = append(v.keys, k.Value)
			v.items = append(v.items, item)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// fromJSON decodes JSON through the token stream so that object key order
// survives.
func fromJSON(data []byte) (*value, error) {
	if !json.Valid(data) {
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("invalid JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	return readJSON(dec)
}

func readJSON(dec *json.Decoder) (*value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return &value{kind: scalarValue, scalar: tok}, nil
	}

	switch delim {
	case '{':
		v := &value{kind: mapValue}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", kt)
			}
			item, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			v.keys = append(v.keys, key)
			v.items = append(v.items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return v, nil
	case '[':
		v := &value{kind: listValue}
		for dec.More() {
			item, err := readJSON(dec)
			if err != nil {
				return nil, err
			}
			v.items = append(v.items, item)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unexpected %q", delim)
}
