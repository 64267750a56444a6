package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/erraggy/rulezod/internal/naming"
)

// ErrUnknownRule is returned by oracles that have no message for a rule.
var ErrUnknownRule = errors.New("no default message for rule")

// MessageContext describes the rule a default message is requested for.
type MessageContext struct {
	// Field is the full field path.
	Field string
	// Attribute is the human-readable field name.
	Attribute string
	// Rule is the canonical rule name.
	Rule string
	// Params are the rule parameters.
	Params []string
	// Type is the inferred field type, used for size-dependent messages.
	Type TypeTag
}

// MessageOracle supplies default messages. An oracle may return a message in
// several parts; the resolver joins them into one string.
type MessageOracle interface {
	Message(ctx MessageContext) ([]string, error)
}

// OracleFunc adapts a function to the MessageOracle interface.
type OracleFunc func(ctx MessageContext) ([]string, error)

// Message implements MessageOracle.
func (f OracleFunc) Message(ctx MessageContext) ([]string, error) {
	return f(ctx)
}

// sizeRules have one message per value category.
var sizeRules = set("min", "max", "size", "between", "gt", "gte", "lt", "lte")

// markerRules modify a field without producing messages of their own.
var markerRules = set("bail", "sometimes", "nullable", "password")

// IsMarkerRule reports whether rule never carries a message.
func IsMarkerRule(rule string) bool {
	_, ok := markerRules[rule]
	return ok
}

// CatalogOracle resolves default messages from a golang.org/x/text catalog.
// English messages are always available and serve as the fallback for
// languages without a translation.
type CatalogOracle struct {
	mu       sync.Mutex
	tag      language.Tag
	builder  *catalog.Builder
	langs    map[language.Tag]map[string]struct{}
	printer  *message.Printer
	fallback *message.Printer
}

// NewCatalogOracle returns an oracle printing messages for tag.
func NewCatalogOracle(tag language.Tag) *CatalogOracle {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	keys := make(map[string]struct{}, len(englishMessages))
	for key, format := range englishMessages {
		// SetString only fails for malformed tags; English is fixed.
		_ = b.SetString(language.English, key, format)
		keys[key] = struct{}{}
	}
	return &CatalogOracle{
		tag:     tag,
		builder: b,
		langs:   map[language.Tag]map[string]struct{}{language.English: keys},
	}
}

// Set adds or replaces the message format for key in lang. Keys are rule
// names, or "rule.category" for size rules (category is one of string,
// numeric, array, file). The format receives the attribute as %[1]s and the
// rule arguments as %[2]s onwards.
func (o *CatalogOracle) Set(lang language.Tag, key, format string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.builder.SetString(lang, key, format); err != nil {
		return fmt.Errorf("validation: setting message %q: %w", key, err)
	}
	if o.langs[lang] == nil {
		o.langs[lang] = make(map[string]struct{})
	}
	o.langs[lang][key] = struct{}{}
	return nil
}

// Language returns the oracle's language.
func (o *CatalogOracle) Language() language.Tag {
	return o.tag
}

// Message implements MessageOracle.
func (o *CatalogOracle) Message(ctx MessageContext) ([]string, error) {
	key := messageKey(ctx.Rule, ctx.Type)

	p, ok := o.printerFor(key)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, ctx.Rule)
	}
	attr := ctx.Attribute
	if attr == "" {
		attr = naming.ToAttribute(ctx.Field)
	}
	return []string{p.Sprintf(key, messageArgs(attr, ctx.Rule, ctx.Params)...)}, nil
}

// printerFor returns the printer for the oracle language when it (or one of
// its parents) has key, and the English printer otherwise.
func (o *CatalogOracle) printerFor(key string) (*message.Printer, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for t := o.tag; ; t = t.Parent() {
		if _, ok := o.langs[t][key]; ok {
			if o.printer == nil {
				o.printer = message.NewPrinter(o.tag, message.Catalog(o.builder))
			}
			return o.printer, true
		}
		if t == language.Und {
			break
		}
	}
	if _, ok := o.langs[language.English][key]; ok {
		if o.fallback == nil {
			o.fallback = message.NewPrinter(language.English, message.Catalog(o.builder))
		}
		return o.fallback, true
	}
	return nil, false
}

// messageKey returns the catalog key for rule, adding the value category for
// size rules.
func messageKey(rule string, typ TypeTag) string {
	if _, ok := sizeRules[rule]; !ok {
		return rule
	}
	return rule + "." + sizeCategory(typ)
}

func sizeCategory(typ TypeTag) string {
	switch typ {
	case TypeNumber:
		return "numeric"
	case TypeArray:
		return "array"
	case TypeFile:
		return "file"
	default:
		return "string"
	}
}

// messageArgs builds the positional arguments of a message: the attribute
// followed by rule-specific values. Missing positions are padded so formats
// never print a bad-index marker.
func messageArgs(attr, rule string, params []string) []any {
	var values []string
	switch rule {
	case "required_if", "required_unless", "prohibited_if", "prohibited_unless", "exclude_if", "exclude_unless":
		if len(params) > 0 {
			values = []string{naming.ToAttribute(params[0]), strings.Join(params[1:], ", ")}
		}
	case "required_with", "required_with_all", "required_without", "required_without_all":
		attrs := make([]string, len(params))
		for i, p := range params {
			attrs[i] = naming.ToAttribute(p)
		}
		values = []string{strings.Join(attrs, " / ")}
	case "same", "different":
		if len(params) > 0 {
			values = []string{naming.ToAttribute(params[0])}
		}
	case "starts_with", "ends_with", "mimes", "mimetypes", "extensions", "doesnt_start_with", "doesnt_end_with":
		values = []string{strings.Join(params, ", ")}
	default:
		values = params
	}

	args := []any{attr}
	for _, v := range values {
		args = append(args, v)
	}
	for len(args) < 4 {
		args = append(args, "")
	}
	return args
}

// englishMessages are the default messages keyed by rule (or rule.category).
var englishMessages = map[string]string{
	"accepted":             "The %[1]s field must be accepted.",
	"active_url":           "The %[1]s field must be a valid URL.",
	"after":                "The %[1]s field must be a date after %[2]s.",
	"after_or_equal":       "The %[1]s field must be a date after or equal to %[2]s.",
	"alpha":                "The %[1]s field must only contain letters.",
	"alpha_dash":           "The %[1]s field must only contain letters, numbers, dashes, and underscores.",
	"alpha_num":            "The %[1]s field must only contain letters and numbers.",
	"array":                "The %[1]s field must be an array.",
	"ascii":                "The %[1]s field must only contain single-byte alphanumeric characters and symbols.",
	"before":               "The %[1]s field must be a date before %[2]s.",
	"before_or_equal":      "The %[1]s field must be a date before or equal to %[2]s.",
	"between.array":        "The %[1]s field must have between %[2]s and %[3]s items.",
	"between.file":         "The %[1]s field must be between %[2]s and %[3]s kilobytes.",
	"between.numeric":      "The %[1]s field must be between %[2]s and %[3]s.",
	"between.string":       "The %[1]s field must be between %[2]s and %[3]s characters.",
	"boolean":              "The %[1]s field must be true or false.",
	"confirmed":            "The %[1]s field confirmation does not match.",
	"date":                 "The %[1]s field must be a valid date.",
	"date_equals":          "The %[1]s field must be a date equal to %[2]s.",
	"date_format":          "The %[1]s field must match the format %[2]s.",
	"decimal":              "The %[1]s field must have %[2]s decimal places.",
	"different":            "The %[1]s field and %[2]s must be different.",
	"digits":               "The %[1]s field must be %[2]s digits.",
	"digits_between":       "The %[1]s field must be between %[2]s and %[3]s digits.",
	"dimensions":           "The %[1]s field has invalid image dimensions.",
	"distinct":             "The %[1]s field has a duplicate value.",
	"doesnt_end_with":      "The %[1]s field must not end with one of the following: %[2]s.",
	"doesnt_start_with":    "The %[1]s field must not start with one of the following: %[2]s.",
	"email":                "The %[1]s field must be a valid email address.",
	"ends_with":            "The %[1]s field must end with one of the following: %[2]s.",
	"exists":               "The selected %[1]s is invalid.",
	"extensions":           "The %[1]s field must have one of the following extensions: %[2]s.",
	"file":                 "The %[1]s field must be a file.",
	"filled":               "The %[1]s field must have a value.",
	"gt.array":             "The %[1]s field must have more than %[2]s items.",
	"gt.file":              "The %[1]s field must be greater than %[2]s kilobytes.",
	"gt.numeric":           "The %[1]s field must be greater than %[2]s.",
	"gt.string":            "The %[1]s field must be greater than %[2]s characters.",
	"gte.array":            "The %[1]s field must have %[2]s items or more.",
	"gte.file":             "The %[1]s field must be greater than or equal to %[2]s kilobytes.",
	"gte.numeric":          "The %[1]s field must be greater than or equal to %[2]s.",
	"gte.string":           "The %[1]s field must be greater than or equal to %[2]s characters.",
	"image":                "The %[1]s field must be an image.",
	"in":                   "The selected %[1]s is invalid.",
	"integer":              "The %[1]s field must be an integer.",
	"ip":                   "The %[1]s field must be a valid IP address.",
	"ipv4":                 "The %[1]s field must be a valid IPv4 address.",
	"ipv6":                 "The %[1]s field must be a valid IPv6 address.",
	"json":                 "The %[1]s field must be a valid JSON string.",
	"letters":              "The %[1]s field must contain at least one letter.",
	"list":                 "The %[1]s field must be a list.",
	"lowercase":            "The %[1]s field must be lowercase.",
	"lt.array":             "The %[1]s field must have less than %[2]s items.",
	"lt.file":              "The %[1]s field must be less than %[2]s kilobytes.",
	"lt.numeric":           "The %[1]s field must be less than %[2]s.",
	"lt.string":            "The %[1]s field must be less than %[2]s characters.",
	"lte.array":            "The %[1]s field must not have more than %[2]s items.",
	"lte.file":             "The %[1]s field must be less than or equal to %[2]s kilobytes.",
	"lte.numeric":          "The %[1]s field must be less than or equal to %[2]s.",
	"lte.string":           "The %[1]s field must be less than or equal to %[2]s characters.",
	"mac_address":          "The %[1]s field must be a valid MAC address.",
	"max.array":            "The %[1]s field must not have more than %[2]s items.",
	"max.file":             "The %[1]s field must not be greater than %[2]s kilobytes.",
	"max.numeric":          "The %[1]s field must not be greater than %[2]s.",
	"max.string":           "The %[1]s field must not be greater than %[2]s characters.",
	"max_digits":           "The %[1]s field must not have more than %[2]s digits.",
	"mimes":                "The %[1]s field must be a file of type: %[2]s.",
	"mimetypes":            "The %[1]s field must be a file of type: %[2]s.",
	"min.array":            "The %[1]s field must have at least %[2]s items.",
	"min.file":             "The %[1]s field must be at least %[2]s kilobytes.",
	"min.numeric":          "The %[1]s field must be at least %[2]s.",
	"min.string":           "The %[1]s field must be at least %[2]s characters.",
	"min_digits":           "The %[1]s field must have at least %[2]s digits.",
	"mixed_case":           "The %[1]s field must contain at least one uppercase and one lowercase letter.",
	"multiple_of":          "The %[1]s field must be a multiple of %[2]s.",
	"not_in":               "The selected %[1]s is invalid.",
	"not_regex":            "The %[1]s field format is invalid.",
	"numbers":              "The %[1]s field must contain at least one number.",
	"numeric":              "The %[1]s field must be a number.",
	"present":              "The %[1]s field must be present.",
	"prohibited":           "The %[1]s field is prohibited.",
	"prohibited_if":        "The %[1]s field is prohibited when %[2]s is %[3]s.",
	"prohibited_unless":    "The %[1]s field is prohibited unless %[2]s is in %[3]s.",
	"regex":                "The %[1]s field format is invalid.",
	"required":             "The %[1]s field is required.",
	"required_if":          "The %[1]s field is required when %[2]s is %[3]s.",
	"required_unless":      "The %[1]s field is required unless %[2]s is in %[3]s.",
	"required_with":        "The %[1]s field is required when %[2]s is present.",
	"required_with_all":    "The %[1]s field is required when %[2]s are present.",
	"required_without":     "The %[1]s field is required when %[2]s is not present.",
	"required_without_all": "The %[1]s field is required when none of %[2]s are present.",
	"same":                 "The %[1]s field must match %[2]s.",
	"size.array":           "The %[1]s field must contain %[2]s items.",
	"size.file":            "The %[1]s field must be %[2]s kilobytes.",
	"size.numeric":         "The %[1]s field must be %[2]s.",
	"size.string":          "The %[1]s field must be %[2]s characters.",
	"starts_with":          "The %[1]s field must start with one of the following: %[2]s.",
	"string":               "The %[1]s field must be a string.",
	"symbols":              "The %[1]s field must contain at least one symbol.",
	"timezone":             "The %[1]s field must be a valid timezone.",
	"ulid":                 "The %[1]s field must be a valid ULID.",
	"uncompromised":        "The given %[1]s has appeared in a data leak. Please choose a different %[1]s.",
	"unique":               "The %[1]s has already been taken.",
	"uppercase":            "The %[1]s field must be uppercase.",
	"url":                  "The %[1]s field must be a valid URL.",
	"uuid":                 "The %[1]s field must be a valid UUID.",
}
