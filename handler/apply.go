package handler

import (
	"strconv"

	"github.com/erraggy/rulezod/builder"
	"github.com/erraggy/rulezod/internal/jsutil"
	"github.com/erraggy/rulezod/validation"
)

// ruleFunc applies one validation to a node. It returns false with a reason
// when the rule cannot be expressed.
type ruleFunc func(n *builder.Node, v validation.ResolvedValidation) (ok bool, reason string)

// ruleTable maps canonical rule names to their appliers.
type ruleTable map[string]ruleFunc

// structural rules are consumed by type inference or modifiers.
var structural = ruleSet(
	"required", "nullable", "sometimes", "bail", "present", "filled",
	"string", "array", "list", "integer", "numeric", "boolean", "password",
	"in", "file", "json",
)

func ruleSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// applyRules applies every validation of set through table. Structural and
// deferred rules are ignored; rules missing from the table are skipped.
func applyRules(ctx *Context, n *builder.Node, set *validation.ResolvedValidationSet, table ruleTable) {
	for _, v := range set.Validations {
		if fn, ok := table[v.Rule]; ok {
			if applied, reason := fn(n, v); !applied {
				ctx.Skip(set, v, reason)
			}
			continue
		}
		if structural[v.Rule] || validation.IsDeferredRule(v.Rule) {
			continue
		}
		ctx.Skip(set, v, "not supported for "+string(n.Kind)+" fields")
	}
}

// merge returns a table holding the entries of all tables, later tables
// winning.
func merge(tables ...ruleTable) ruleTable {
	out := make(ruleTable)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

// numberArg validates a numeric parameter.
func numberArg(p string) (builder.Arg, bool) {
	if _, err := strconv.ParseFloat(p, 64); err != nil {
		return builder.Arg{}, false
	}
	return builder.Num(p), true
}

// op applies a single-number operator such as min(3).
func op(name string) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		arg, ok := numberArg(v.Param(0))
		if !ok {
			return false, "non-numeric parameter " + strconv.Quote(v.Param(0))
		}
		n.Apply(name, v.Message, arg)
		return true, ""
	}
}

// between applies min and max operators from a two-parameter rule.
func between(minOp, maxOp string) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		lo, ok1 := numberArg(v.Param(0))
		hi, ok2 := numberArg(v.Param(1))
		if !ok1 || !ok2 {
			return false, "between needs two numeric parameters"
		}
		n.Apply(minOp, v.Message, lo)
		n.Apply(maxOp, v.Message, hi)
		return true, ""
	}
}

// plain applies a parameterless operator.
func plain(name string) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply(name, v.Message)
		return true, ""
	}
}

// pattern applies a fixed regular expression.
func pattern(re string) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply("regex", v.Message, builder.Regex(re))
		return true, ""
	}
}

// refine applies a refinement predicate given as target code.
func refine(predicate string) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply("refine", v.Message, builder.Raw(predicate))
		return true, ""
	}
}

var stringRules = ruleTable{
	"min":         op("min"),
	"max":         op("max"),
	"size":        op("length"),
	"between":     between("min", "max"),
	"email":       plain("email"),
	"url":         plain("url"),
	"active_url":  plain("url"),
	"uuid":        plain("uuid"),
	"ulid":        plain("ulid"),
	"ip":          plain("ip"),
	"ipv4":        plain("ip"),
	"ipv6":        plain("ip"),
	"alpha":       pattern(`/^[\p{L}\p{M}]+$/u`),
	"alpha_num":   pattern(`/^[\p{L}\p{M}\p{N}]+$/u`),
	"alpha_dash":  pattern(`/^[\p{L}\p{M}\p{N}_-]+$/u`),
	"ascii":       pattern(`/^[\x00-\x7F]*$/`),
	"lowercase":   refine("(value) => value === value.toLowerCase()"),
	"uppercase":   refine("(value) => value === value.toUpperCase()"),
	"date":        refine("(value) => !Number.isNaN(Date.parse(value))"),
	"date_format": refine("(value) => !Number.isNaN(Date.parse(value))"),
	"timezone":    refine("(value) => { try { new Intl.DateTimeFormat(undefined, { timeZone: value }); return true; } catch { return false; } }"),
	"regex": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply("regex", v.Message, regexArg(v.Param(0)))
		return true, ""
	},
	"not_regex": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		re := regexArg(v.Param(0))
		n.Apply("refine", v.Message, builder.Raw("(value) => !"+re.Value+".test(value)"))
		return true, ""
	},
	"starts_with":       prefixRule("startsWith", false),
	"ends_with":         prefixRule("endsWith", false),
	"doesnt_start_with": prefixRule("startsWith", true),
	"doesnt_end_with":   prefixRule("endsWith", true),
	"not_in": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply("refine", v.Message, builder.Raw("(value) => !"+jsutil.List(v.Params)+".includes(value)"))
		return true, ""
	},
}

// prefixRule builds startsWith/endsWith checks over one or more params.
func prefixRule(method string, negate bool) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		if len(v.Params) == 0 {
			return false, "missing parameters"
		}
		if len(v.Params) == 1 && !negate {
			n.Apply(method, v.Message, builder.Str(v.Params[0]))
			return true, ""
		}
		check := jsutil.List(v.Params) + ".some((p) => value." + method + "(p))"
		if negate {
			check = "!" + check
		}
		n.Apply("refine", v.Message, builder.Raw("(value) => "+check))
		return true, ""
	}
}

var numberRules = ruleTable{
	"min":         op("min"),
	"max":         op("max"),
	"between":     between("min", "max"),
	"gt":          op("gt"),
	"gte":         op("gte"),
	"lt":          op("lt"),
	"lte":         op("lte"),
	"multiple_of": op("multipleOf"),
	"size": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		arg, ok := numberArg(v.Param(0))
		if !ok {
			return false, "non-numeric parameter"
		}
		n.Apply("refine", v.Message, builder.Raw("(value) => value === "+arg.Value))
		return true, ""
	},
	"digits": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		arg, ok := numberArg(v.Param(0))
		if !ok {
			return false, "non-numeric parameter"
		}
		n.Apply("refine", v.Message, builder.Raw("(value) => String(Math.trunc(Math.abs(value))).length === "+arg.Value))
		return true, ""
	},
	"digits_between": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		lo, ok1 := numberArg(v.Param(0))
		hi, ok2 := numberArg(v.Param(1))
		if !ok1 || !ok2 {
			return false, "digits_between needs two numeric parameters"
		}
		n.Apply("refine", v.Message, builder.Raw(
			"(value) => { const d = String(Math.trunc(Math.abs(value))).length; return d >= "+lo.Value+" && d <= "+hi.Value+"; }"))
		return true, ""
	},
	"decimal": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		lo, ok := numberArg(v.Param(0))
		if !ok {
			return false, "non-numeric parameter"
		}
		hi := lo
		if p := v.Param(1); p != "" {
			if hi, ok = numberArg(p); !ok {
				return false, "non-numeric parameter"
			}
		}
		n.Apply("refine", v.Message, builder.Raw(
			"(value) => { const d = (String(value).split('.')[1] ?? '').length; return d >= "+lo.Value+" && d <= "+hi.Value+"; }"))
		return true, ""
	},
}

var arrayRules = ruleTable{
	"min":      op("min"),
	"max":      op("max"),
	"size":     op("length"),
	"between":  between("min", "max"),
	"distinct": refine("(items) => new Set(items).size === items.length"),
}

var fileRules = ruleTable{
	"max":   kilobytes("<="),
	"min":   kilobytes(">="),
	"size":  kilobytes("==="),
	"image": refine("(file) => file.type.startsWith('image/')"),
	"mimes": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply("refine", v.Message, builder.Raw(
			"(file) => "+jsutil.List(v.Params)+".includes(file.name.split('.').pop()?.toLowerCase() ?? '')"))
		return true, ""
	},
	"mimetypes": func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		n.Apply("refine", v.Message, builder.Raw("(file) => "+jsutil.List(v.Params)+".includes(file.type)"))
		return true, ""
	},
}

func init() {
	fileRules["extensions"] = fileRules["mimes"]
}

// kilobytes compares a file size against a kilobyte parameter.
func kilobytes(cmp string) ruleFunc {
	return func(n *builder.Node, v validation.ResolvedValidation) (bool, string) {
		arg, ok := numberArg(v.Param(0))
		if !ok {
			return false, "non-numeric parameter"
		}
		n.Apply("refine", v.Message, builder.Raw("(file) => file.size "+cmp+" "+arg.Value+" * 1024"))
		return true, ""
	}
}

var passwordRules = ruleTable{
	"letters":    pattern(`/\p{L}/u`),
	"mixed_case": pattern(`/(\p{Ll}+.*\p{Lu})|(\p{Lu}+.*\p{Ll})/u`),
	"numbers":    pattern(`/\p{N}/u`),
	"symbols":    pattern(`/\p{Z}|\p{S}|\p{P}/u`),
	"uncompromised": func(*builder.Node, validation.ResolvedValidation) (bool, string) {
		return false, "requires a server-side breach lookup"
	},
}
