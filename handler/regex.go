package handler

import (
	"strings"

	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/internal/jsutil"
)

// jsRegexFlags are the pattern modifiers shared by PCRE and JavaScript.
const jsRegexFlags = "imsu"

// regexArg converts a delimited PCRE pattern such as "/^a+$/i" or "#x|y#"
// into a JavaScript regular expression argument. Patterns that are not
// delimited are passed through unchanged as a RegExp constructor call.
func regexArg(pattern string) builder.Arg {
	body, flags, ok := splitPattern(pattern)
	if !ok {
		return builder.Raw("new RegExp(" + jsutil.Quote(pattern) + ")")
	}
	return builder.Regex("/" + escapeSlashes(body) + "/" + flags)
}

// splitPattern separates the body and flags of a delimited pattern.
func splitPattern(pattern string) (body, flags string, ok bool) {
	if len(pattern) < 2 {
		return "", "", false
	}
	open := pattern[0]
	closing := open
	switch open {
	case '(':
		closing = ')'
	case '{':
		closing = '}'
	case '[':
		closing = ']'
	case '<':
		closing = '>'
	}
	if isAlphaNum(open) || open == '\\' || open == ' ' {
		return "", "", false
	}
	end := strings.LastIndexByte(pattern, closing)
	if end <= 0 {
		return "", "", false
	}
	var fl strings.Builder
	for _, f := range pattern[end+1:] {
		if strings.ContainsRune(jsRegexFlags, f) && !strings.ContainsRune(fl.String(), f) {
			fl.WriteRune(f)
		}
	}
	return pattern[1:end], fl.String(), true
}

// escapeSlashes escapes unescaped forward slashes for a JavaScript literal.
func escapeSlashes(body string) string {
	var b strings.Builder
	escaped := false
	for _, r := range body {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAlphaNum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
