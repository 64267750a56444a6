// Package issues provides a unified issue type for recoverable compile problems.
package issues

import (
	"fmt"
	"strings"

	"github.com/erraggy/rulezod/internal/severity"
)

// Issue is one recoverable problem found while compiling a class.
type Issue struct {
	// Path locates the problem, e.g. "UserSchema.address.city".
	Path     string            `json:"path"`
	Message  string            `json:"message"`
	Severity severity.Severity `json:"severity"`
	Rule     string            `json:"rule,omitempty"`
	Value    any               `json:"value,omitempty"`
	Context  string            `json:"context,omitempty"`
}

// String renders the issue as "<symbol> path: message [rule r]", with the
// context on an indented second line when present.
func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", i.Severity.Symbol(), i.Path, i.Message)
	if i.Rule != "" {
		fmt.Fprintf(&b, " [rule %s]", i.Rule)
	}
	if i.Context != "" {
		fmt.Fprintf(&b, "\n    Context: %s", i.Context)
	}
	return b.String()
}

// Counts tallies issues by severity. Error and critical issues are both
// counted as critical.
func Counts(list []Issue) (info, warnings, critical int) {
	for _, issue := range list {
		switch {
		case issue.Severity.Blocking():
			critical++
		case issue.Severity == severity.SeverityWarning:
			warnings++
		case issue.Severity == severity.SeverityInfo:
			info++
		}
	}
	return info, warnings, critical
}

// Collector accumulates issues during a compile run. The zero value is ready to use.
type Collector struct {
	list []Issue
}

// Add records an issue.
func (c *Collector) Add(issue Issue) {
	if c == nil {
		return
	}
	c.list = append(c.list, issue)
}

// Addf records an issue with a formatted message.
func (c *Collector) Addf(sev severity.Severity, path, rule, format string, args ...any) {
	c.Add(Issue{Path: path, Rule: rule, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Issues returns the collected issues.
func (c *Collector) Issues() []Issue {
	if c == nil {
		return nil
	}
	return c.list
}

// Reset clears the collector for reuse across runs.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.list = nil
}
