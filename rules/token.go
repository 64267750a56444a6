package rules

import "strings"

// Token is one parsed rule directive.
type Token struct {
	// Name is the rule name as written, e.g. "max" or "DigitsBetween".
	Name string
	// Params are the comma-separated parameters. Regex rules carry the whole
	// pattern as a single parameter.
	Params []string
}

// String renders the token in "name:params" form.
func (t Token) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	return t.Name + ":" + strings.Join(t.Params, ",")
}

// Param returns the i-th parameter or "" when absent.
func (t Token) Param(i int) string {
	if i < 0 || i >= len(t.Params) {
		return ""
	}
	return t.Params[i]
}

// ParseToken parses a single "name:params" directive.
func ParseToken(s string) Token {
	s = strings.TrimSpace(s)
	name, rest, found := strings.Cut(s, ":")
	tok := Token{Name: strings.TrimSpace(name)}
	if !found {
		return tok
	}
	lower := strings.ToLower(tok.Name)
	if lower == "regex" || lower == "not_regex" || lower == "notregex" {
		tok.Params = []string{rest}
		return tok
	}
	for _, p := range strings.Split(rest, ",") {
		tok.Params = append(tok.Params, strings.TrimSpace(p))
	}
	return tok
}

// Parse splits and parses a normalized rule string.
func Parse(s string) []Token {
	parts := Split(s)
	out := make([]Token, 0, len(parts))
	for _, p := range parts {
		out = append(out, ParseToken(p))
	}
	return out
}
