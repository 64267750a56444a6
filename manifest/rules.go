package manifest

import (
	"fmt"
	"strings"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/validation"
)

// toRule converts an authored rule value. Strings pass through, lists keep
// their order and mappings become rule objects, one per key.
func toRule(v *value) (any, error) {
	if v.isNull() {
		return nil, nil
	}
	switch v.kind {
	case listValue:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			r, err := toRule(item)
			if err != nil {
				return nil, err
			}
			if r != nil {
				out = append(out, r)
			}
		}
		return out, nil
	case mapValue:
		out := make([]any, 0, len(v.keys))
		for i, key := range v.keys {
			r, err := ruleObject(key, v.items[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			if r != nil {
				out = append(out, r)
			}
		}
		if len(out) == 1 {
			return out[0], nil
		}
		return out, nil
	}
	return v.str()
}

// ruleList converts a property's rules into the list form used by
// extractor.Property.
func ruleList(v *value) ([]any, error) {
	r, err := toRule(v)
	if err != nil || r == nil {
		return nil, err
	}
	if list, ok := r.([]any); ok && v.kind == listValue {
		return list, nil
	}
	return []any{r}, nil
}

func ruleObject(key string, v *value) (any, error) {
	name := validation.NormalizeRuleName(key)
	switch name {
	case "required_if", "required_unless":
		field, values, err := conditional(v)
		if err != nil {
			return nil, err
		}
		if name == "required_if" {
			return rules.RequiredIf{Field: field, Values: values}, nil
		}
		return rules.RequiredUnless{Field: field, Values: values}, nil
	case "required_with", "required_without":
		fields, err := v.stringList()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("needs at least one field")
		}
		if name == "required_with" {
			return rules.RequiredWith{Fields: fields}, nil
		}
		return rules.RequiredWithout{Fields: fields}, nil
	case "password":
		return password(v)
	case "in", "not_in":
		values, err := v.scalars()
		if err != nil {
			return nil, err
		}
		if name == "in" {
			return rules.In{Values: values}, nil
		}
		return rules.NotIn{Values: values}, nil
	case "enum":
		return enum(v)
	case "when":
		return when(v)
	}
	return plainRule(name, v)
}

// plainRule renders a rule without a dedicated object: true or null is the
// bare rule, false drops it, scalars and lists become parameters.
func plainRule(name string, v *value) (any, error) {
	if v.isNull() {
		return name, nil
	}
	switch v.kind {
	case scalarValue:
		if b, ok := v.scalar.(bool); ok {
			if !b {
				return nil, nil
			}
			return name, nil
		}
		s, err := v.str()
		if err != nil {
			return nil, err
		}
		return name + ":" + s, nil
	case listValue:
		params, err := v.stringList()
		if err != nil {
			return nil, err
		}
		return name + ":" + strings.Join(params, ","), nil
	}
	return nil, fmt.Errorf("unsupported %s parameters", v.describe())
}

// conditional reads {field, value|values}, [field, values...] or
// "field,values...".
func conditional(v *value) (string, []any, error) {
	switch v.kind {
	case mapValue:
		f, ok := v.get("field")
		if !ok {
			return "", nil, fmt.Errorf("missing field")
		}
		field, err := f.str()
		if err != nil {
			return "", nil, err
		}
		var values []any
		if x, ok := v.lookup("values", "value"); ok {
			if values, err = x.scalars(); err != nil {
				return "", nil, err
			}
		}
		return field, values, nil
	case listValue:
		all, err := v.scalars()
		if err != nil {
			return "", nil, err
		}
		if len(all) == 0 {
			return "", nil, fmt.Errorf("missing field")
		}
		return rules.Stringify(all[0]), all[1:], nil
	}
	parts, err := v.stringList()
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("missing field")
	}
	values := make([]any, 0, len(parts)-1)
	for _, p := range parts[1:] {
		values = append(values, p)
	}
	return parts[0], values, nil
}

// password reads a minimum length or a mapping of constraints. Constraints
// apply in authored order.
func password(v *value) (any, error) {
	if v.isNull() {
		return rules.NewPassword(0), nil
	}
	if v.kind == scalarValue {
		if b, ok := v.scalar.(bool); ok {
			if !b {
				return nil, nil
			}
			return rules.NewPassword(0), nil
		}
		n, err := v.integer()
		if err != nil {
			return nil, fmt.Errorf("min: %w", err)
		}
		return rules.NewPassword(n), nil
	}
	if v.kind != mapValue {
		return nil, fmt.Errorf("expected a mapping, got a %s", v.describe())
	}

	minLen := 0
	if m, ok := v.get("min"); ok {
		n, err := m.integer()
		if err != nil {
			return nil, fmt.Errorf("min: %w", err)
		}
		minLen = n
	}
	p := rules.NewPassword(minLen)
	for i, key := range v.keys {
		item := v.items[i]
		name := validation.NormalizeRuleName(key)
		if name == "min" {
			continue
		}
		if name == "uncompromised" {
			threshold := 0
			if !item.isNull() {
				if b, ok := item.scalar.(bool); ok {
					if !b {
						continue
					}
				} else {
					n, err := item.integer()
					if err != nil {
						return nil, fmt.Errorf("uncompromised: %w", err)
					}
					threshold = n
				}
			}
			p.Uncompromised(threshold)
			continue
		}
		on := true
		if !item.isNull() {
			b, err := item.boolean()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			on = b
		}
		if !on {
			continue
		}
		switch name {
		case "letters":
			p.Letters()
		case "mixed_case":
			p.MixedCase()
		case "numbers":
			p.Numbers()
		case "symbols":
			p.Symbols()
		default:
			return nil, fmt.Errorf("unknown password constraint %q", key)
		}
	}
	return p, nil
}

func enum(v *value) (any, error) {
	e := rules.Enum{}
	values := v
	if v.kind == mapValue {
		if n, ok := v.get("name"); ok {
			name, err := n.str()
			if err != nil {
				return nil, fmt.Errorf("enum name: %w", err)
			}
			e.Name = name
		}
		var ok bool
		if values, ok = v.get("values"); !ok {
			return nil, fmt.Errorf("missing values")
		}
	}
	list, err := values.stringList()
	if err != nil {
		return nil, err
	}
	e.Values = list
	return e, nil
}

// when reads {condition, rules, otherwise}. The condition is fixed when the
// manifest is loaded.
func when(v *value) (any, error) {
	if v.kind != mapValue {
		return nil, fmt.Errorf("expected a mapping, got a %s", v.describe())
	}
	cond := false
	if c, ok := v.get("condition"); ok {
		b, err := c.boolean()
		if err != nil {
			return nil, fmt.Errorf("condition: %w", err)
		}
		cond = b
	}
	var then, otherwise any
	var err error
	if r, ok := v.get("rules"); ok {
		if then, err = toRule(r); err != nil {
			return nil, err
		}
	}
	if r, ok := v.get("otherwise"); ok {
		if otherwise, err = toRule(r); err != nil {
			return nil, err
		}
	}
	return rules.WhenElse(func() bool { return cond }, then, otherwise), nil
}

// inherit reads "Class.property" or {class, property}.
func inherit(v *value) (*extractor.Inherit, error) {
	if v.kind == mapValue {
		var in extractor.Inherit
		var err error
		if c, ok := v.get("class"); ok {
			if in.Class, err = c.str(); err != nil {
				return nil, fmt.Errorf("inherit class: %w", err)
			}
		}
		if p, ok := v.get("property"); ok {
			if in.Property, err = p.str(); err != nil {
				return nil, fmt.Errorf("inherit property: %w", err)
			}
		}
		if in.Class == "" || in.Property == "" {
			return nil, fmt.Errorf("inherit needs class and property")
		}
		return &in, nil
	}
	s, err := v.str()
	if err != nil {
		return nil, err
	}
	idx := strings.LastIndex(s, ".")
	if idx <= 0 || idx == len(s)-1 {
		return nil, fmt.Errorf("inherit %q is not Class.property", s)
	}
	return &extractor.Inherit{Class: s[:idx], Property: s[idx+1:]}, nil
}
