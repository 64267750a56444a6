package rules

import (
	"strconv"
	"strings"
)

// RequiredIf requires the field when another field equals one of Values.
// The comparison is deferred to the validated data and normalizes to
// "required_if:field,value,...".
type RequiredIf struct {
	Field  string
	Values []any
}

// Tokens implements Expander.
func (r RequiredIf) Tokens() []string {
	return []string{conditionalToken("required_if", r.Field, r.Values)}
}

// RequiredUnless requires the field unless another field equals one of Values.
type RequiredUnless struct {
	Field  string
	Values []any
}

// Tokens implements Expander.
func (r RequiredUnless) Tokens() []string {
	return []string{conditionalToken("required_unless", r.Field, r.Values)}
}

// RequiredWith requires the field when any of Fields is present.
type RequiredWith struct {
	Fields []string
}

// Tokens implements Expander.
func (r RequiredWith) Tokens() []string {
	return []string{"required_with:" + strings.Join(r.Fields, ",")}
}

// RequiredWithout requires the field when any of Fields is absent.
type RequiredWithout struct {
	Fields []string
}

// Tokens implements Expander.
func (r RequiredWithout) Tokens() []string {
	return []string{"required_without:" + strings.Join(r.Fields, ",")}
}

func conditionalToken(name, field string, values []any) string {
	params := append([]string{field}, stringifyAll(values)...)
	return name + ":" + strings.Join(params, ",")
}

// Conditional applies Rules when Condition holds and Otherwise when it does
// not. The condition is evaluated each time the rule is normalized.
type Conditional struct {
	Condition func() bool
	Rules     any
	Otherwise any
}

// When returns a Conditional that applies rules when condition returns true.
func When(condition func() bool, rules any) Conditional {
	return Conditional{Condition: condition, Rules: rules}
}

// WhenElse returns a Conditional with a fallback for a false condition.
func WhenElse(condition func() bool, rules, otherwise any) Conditional {
	return Conditional{Condition: condition, Rules: rules, Otherwise: otherwise}
}

// RequiredWhen collapses to "required" when condition returns true and to
// nothing otherwise.
func RequiredWhen(condition func() bool) Conditional {
	return Conditional{Condition: condition, Rules: "required"}
}

// Tokens implements Expander.
func (c Conditional) Tokens() []string {
	if c.Condition != nil && c.Condition() {
		return normalizeTokens(c.Rules)
	}
	return normalizeTokens(c.Otherwise)
}

// Password is a composite password policy. Each configured constraint adds
// one token after "password" and "min:n", in configuration order.
type Password struct {
	min         int
	constraints []string
}

// NewPassword returns a policy requiring at least min characters.
func NewPassword(min int) *Password {
	return &Password{min: min}
}

// Letters requires at least one letter.
func (p *Password) Letters() *Password { return p.add("letters") }

// MixedCase requires upper and lower case letters.
func (p *Password) MixedCase() *Password { return p.add("mixed_case") }

// Numbers requires at least one digit.
func (p *Password) Numbers() *Password { return p.add("numbers") }

// Symbols requires at least one symbol.
func (p *Password) Symbols() *Password { return p.add("symbols") }

// Uncompromised requires that the password appears in known data leaks at
// most threshold times.
func (p *Password) Uncompromised(threshold int) *Password {
	return p.add("uncompromised:" + strconv.Itoa(threshold))
}

func (p *Password) add(token string) *Password {
	for _, t := range p.constraints {
		if t == token {
			return p
		}
	}
	p.constraints = append(p.constraints, token)
	return p
}

// Tokens implements Expander.
func (p *Password) Tokens() []string {
	out := []string{"password"}
	if p.min > 0 {
		out = append(out, "min:"+strconv.Itoa(p.min))
	}
	return append(out, p.constraints...)
}

// In restricts the field to a fixed set of values.
type In struct {
	Values []any
}

// String returns the "in:a,b" rule token.
func (r In) String() string {
	return "in:" + strings.Join(stringifyAll(r.Values), ",")
}

// NotIn rejects a fixed set of values.
type NotIn struct {
	Values []any
}

// String returns the "not_in:a,b" rule token.
func (r NotIn) String() string {
	return "not_in:" + strings.Join(stringifyAll(r.Values), ",")
}

// Enum restricts the field to the cases of a named enumeration. It normalizes
// to an "in" token so that the enumeration is inferred like any literal set.
type Enum struct {
	Name   string
	Values []string
}

// String returns the "in:..." rule token.
func (r Enum) String() string {
	return "in:" + strings.Join(r.Values, ",")
}
