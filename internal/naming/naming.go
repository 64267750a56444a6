package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToPascalCase joins the words of s, split on any separator, with each
// word's first letter upper-cased.
// Example: "user_profile" -> "UserProfile"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(s, isSeparator) {
		b.WriteString(ToTitleCase(word))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case. Runs of capitals are treated as
// one word so acronyms stay together.
// Example: "DigitsBetween" -> "digits_between"
// Example: "UUID" -> "uuid", "ActiveURL" -> "active_url"
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && needsBreak(runes, i) {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '.' || r == '/' || r == ' ':
			result.WriteRune('_')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// needsBreak reports whether an upper-case rune at i starts a new word.
func needsBreak(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '_' || prev == '-' || prev == '.' || prev == '/' || prev == ' ' {
		return false
	}
	if !unicode.IsUpper(prev) {
		return true
	}
	// Inside an acronym: break only before the last capital of the run when a
	// lowercase letter follows ("URLPath" -> "url_path").
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// ToTitleCase converts the first letter to uppercase.
// Example: "hello" -> "Hello"
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ToAttribute converts a field path into the human attribute name used in
// messages. The last path segment is used, wildcards are dropped, and
// separators become spaces.
// Example: "items.*.unit_price" -> "unit price"
func ToAttribute(field string) string {
	segments := strings.Split(field, ".")
	name := ""
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "*" && segments[i] != "" {
			name = segments[i]
			break
		}
	}
	if name == "" {
		return field
	}
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.ToLower(ToSnakeCaseWords(name))
}

// ToSnakeCaseWords splits camelCase words with spaces without touching
// existing separators.
// Example: "firstName" -> "first Name"
func ToSnakeCaseWords(s string) string {
	runes := []rune(s)
	var result strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && needsBreak(runes, i) {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

// ToUpper upper-cases s with the casing rules of tag.
// Example: "straße" -> "STRASSE"
func ToUpper(s string, tag language.Tag) string {
	return cases.Upper(tag).String(s)
}

// ClassBaseName returns the unqualified class name from a qualified name
// using "\\", "/" or "." as namespace separators.
// Example: "App\\Http\\Requests\\StoreUserRequest" -> "StoreUserRequest"
func ClassBaseName(name string) string {
	idx := strings.LastIndexAny(name, `\/.`)
	if idx < 0 {
		return name
	}
	return name[idx+1:]
}

// ClassDottedName converts a qualified class name into a dotted type path.
// Example: "App\\Data\\UserData" -> "App.Data.UserData"
func ClassDottedName(name string) string {
	name = strings.Trim(name, `\/`)
	return strings.NewReplacer(`\`, ".", "/", ".").Replace(name)
}

// IsIdentifier reports whether s is a valid JavaScript identifier that can
// be used as a bare property key or after a dot accessor.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == '\\' || r == ' '
}
