package validation

// ResolvedValidation is one rule bound to its message.
type ResolvedValidation struct {
	// Rule is the canonical rule name.
	Rule string `json:"rule" yaml:"rule"`
	// Params holds the rule parameters in authored order.
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
	// Message is the resolved human-readable message. Empty means no message
	// could be resolved.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// IsRequired is true for the unconditional "required" rule.
	IsRequired bool `json:"isRequired,omitempty" yaml:"isRequired,omitempty"`
	// IsNullable is true for the "nullable" rule.
	IsNullable bool `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
}

// Param returns the i-th parameter or "" when absent.
func (v ResolvedValidation) Param(i int) string {
	if i < 0 || i >= len(v.Params) {
		return ""
	}
	return v.Params[i]
}

// HasMessage reports whether a message was resolved.
func (v ResolvedValidation) HasMessage() bool {
	return v.Message != ""
}

// ResolvedValidationSet holds the resolved validations of one field and, for
// arrays and objects, of its nested fields.
type ResolvedValidationSet struct {
	// Field is the field name (last path segment, "*" for array elements).
	Field string `json:"field" yaml:"field"`
	// Path is the full dotted path of the field.
	Path string `json:"path" yaml:"path"`
	// Type is the inferred type tag. It is never empty.
	Type TypeTag `json:"type" yaml:"type"`
	// Validations are the resolved rules in authored order.
	Validations []ResolvedValidation `json:"validations,omitempty" yaml:"validations,omitempty"`
	// Children are the fields of an object, in order.
	Children []*ResolvedValidationSet `json:"children,omitempty" yaml:"children,omitempty"`
	// Items describes the elements of an array.
	Items *ResolvedValidationSet `json:"items,omitempty" yaml:"items,omitempty"`
	// Ref names another schema this field refers to.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// IsFieldRequired reports whether any validation is an unconditional
// "required" rule.
func (s *ResolvedValidationSet) IsFieldRequired() bool {
	for _, v := range s.Validations {
		if v.IsRequired {
			return true
		}
	}
	return false
}

// IsNullable reports whether the field accepts null.
func (s *ResolvedValidationSet) IsNullable() bool {
	for _, v := range s.Validations {
		if v.IsNullable {
			return true
		}
	}
	return false
}

// Has reports whether the set contains rule.
func (s *ResolvedValidationSet) Has(rule string) bool {
	_, ok := s.Get(rule)
	return ok
}

// Get returns the first validation for rule.
func (s *ResolvedValidationSet) Get(rule string) (ResolvedValidation, bool) {
	for _, v := range s.Validations {
		if v.Rule == rule {
			return v, true
		}
	}
	return ResolvedValidation{}, false
}

// Param returns the i-th parameter of rule, or "" when the rule or parameter
// is missing.
func (s *ResolvedValidationSet) Param(rule string, i int) string {
	v, ok := s.Get(rule)
	if !ok {
		return ""
	}
	return v.Param(i)
}

// Child returns the named child set, or nil.
func (s *ResolvedValidationSet) Child(name string) *ResolvedValidationSet {
	for _, c := range s.Children {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// Walk calls fn for the set and every nested set, depth first.
func (s *ResolvedValidationSet) Walk(fn func(*ResolvedValidationSet)) {
	if s == nil {
		return
	}
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
	s.Items.Walk(fn)
}
