package validation

import (
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/erraggy/rulezod/internal/issues"
	"github.com/erraggy/rulezod/internal/naming"
	"github.com/erraggy/rulezod/internal/severity"
	"github.com/erraggy/rulezod/logging"
	"github.com/erraggy/rulezod/rules"
	"github.com/erraggy/rulezod/ruletree"
)

// Resolver binds rule tokens to messages.
type Resolver struct {
	oracle   MessageOracle
	messages map[string]string
	logger   logging.Logger
	issues   *issues.Collector
	scope    string

	oracleSet bool
}

// defaultOracle is shared by resolvers that do not configure an oracle.
var defaultOracle = sync.OnceValue(func() *CatalogOracle {
	return NewCatalogOracle(language.English)
})

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithOracle sets the message oracle. A nil oracle disables default messages.
func WithOracle(o MessageOracle) ResolverOption {
	return func(r *Resolver) {
		r.oracle = o
		r.oracleSet = true
	}
}

// WithMessages sets custom messages keyed by "field.rule" or "rule".
func WithMessages(m map[string]string) ResolverOption {
	return func(r *Resolver) { r.messages = m }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logging.OrNop(l) }
}

// WithIssues sets the collector that receives unresolved-message issues.
func WithIssues(c *issues.Collector) ResolverOption {
	return func(r *Resolver) { r.issues = c }
}

// WithScope prefixes issue paths, usually with the schema name.
func WithScope(scope string) ResolverOption {
	return func(r *Resolver) { r.scope = scope }
}

// NewResolver returns a resolver using the English catalog oracle unless
// another oracle is configured.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	if !r.oracleSet {
		r.oracle = defaultOracle()
	}
	return r
}

// Resolve resolves a flat field with no nested paths.
func (r *Resolver) Resolve(field, ruleString string) *ResolvedValidationSet {
	tokens := rules.Parse(ruleString)
	set := &ResolvedValidationSet{
		Field: lastSegment(field),
		Path:  field,
		Type:  InferType(tokens, false),
	}
	set.Validations = r.resolveTokens(field, set.Type, tokens)
	return set
}

// ResolveTree resolves node and its descendants. field is the node's path.
func (r *Resolver) ResolveTree(field string, node *ruletree.Node) *ResolvedValidationSet {
	tokens := rules.Parse(node.RuleString())
	typ := InferType(tokens, node.IsArray())
	if node.IsObject() && (typ == TypeString || typ == TypeArray) {
		typ = TypeObject
	}

	set := &ResolvedValidationSet{
		Field: lastSegment(field),
		Path:  field,
		Type:  typ,
	}
	set.Validations = r.resolveTokens(field, typ, tokens)

	for _, child := range node.ChildList() {
		set.Children = append(set.Children, r.ResolveTree(joinField(field, child.Name), child))
	}
	if node.Wildcard != nil {
		set.Items = r.ResolveTree(joinField(field, ruletree.Wildcard), node.Wildcard)
	}
	return set
}

// ResolveAll groups flat entries and resolves every top-level field in order.
func (r *Resolver) ResolveAll(entries []ruletree.Entry) []*ResolvedValidationSet {
	root := ruletree.Group(entries)
	out := make([]*ResolvedValidationSet, 0, len(root.Order))
	for _, child := range root.ChildList() {
		out = append(out, r.ResolveTree(child.Name, child))
	}
	return out
}

func (r *Resolver) resolveTokens(field string, typ TypeTag, tokens []rules.Token) []ResolvedValidation {
	out := make([]ResolvedValidation, 0, len(tokens))
	for _, tok := range tokens {
		name := NormalizeRuleName(tok.Name)
		out = append(out, ResolvedValidation{
			Rule:       name,
			Params:     tok.Params,
			Message:    r.message(field, name, tok.Params, typ),
			IsRequired: name == "required",
			IsNullable: name == "nullable",
		})
	}
	return out
}

// message returns the custom message for the rule, falling back to the
// oracle. It returns "" when neither yields a message.
func (r *Resolver) message(field, rule string, params []string, typ TypeTag) string {
	attr := naming.ToAttribute(field)
	if custom, ok := r.customMessage(field, rule); ok {
		return expandPlaceholders(custom, attr, rule, params)
	}
	if IsMarkerRule(rule) || r.oracle == nil {
		return ""
	}

	parts, err := r.oracle.Message(MessageContext{
		Field:     field,
		Attribute: attr,
		Rule:      rule,
		Params:    params,
		Type:      typ,
	})
	if err != nil {
		r.logger.Debug("no default message", "field", field, "rule", rule, "error", err)
		r.issues.Addf(severity.SeverityInfo, r.issuePath(field), rule, "no default message: %v", err)
		return ""
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (r *Resolver) customMessage(field, rule string) (string, bool) {
	if r.messages == nil {
		return "", false
	}
	if m, ok := r.messages[field+"."+rule]; ok {
		return m, true
	}
	m, ok := r.messages[rule]
	return m, ok
}

func (r *Resolver) issuePath(field string) string {
	if r.scope == "" {
		return field
	}
	return r.scope + "." + field
}

// expandPlaceholders replaces ":attribute" style placeholders in custom
// messages.
func expandPlaceholders(msg, attr, rule string, params []string) string {
	if !strings.Contains(msg, ":") {
		return msg
	}
	p := func(i int) string {
		if i < len(params) {
			return params[i]
		}
		return ""
	}
	maxValue := p(0)
	if rule == "between" || rule == "digits_between" {
		maxValue = p(1)
	}
	other := ""
	if len(params) > 0 {
		other = naming.ToAttribute(params[0])
	}
	return strings.NewReplacer(
		":attribute", attr,
		":Attribute", naming.ToTitleCase(attr),
		":ATTRIBUTE", naming.ToUpper(attr, language.Und),
		":other", other,
		":values", strings.Join(params, ", "),
		":value", p(0),
		":min", p(0),
		":max", maxValue,
		":size", p(0),
		":digits", p(0),
		":date", p(0),
		":format", p(0),
	).Replace(msg)
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
