// Package severity defines the levels attached to compile issues.
//
// Levels are ordered, Info < Warning < Error < Critical, so callers can
// filter with [Severity.AtLeast].
package severity

import "fmt"

// Severity indicates the severity level of a compile issue.
type Severity int

const (
	// SeverityInfo records a processing choice, such as a skipped rule.
	SeverityInfo Severity = iota
	// SeverityWarning is a degradation that still yields a valid schema,
	// such as a missing default message or an unresolved dependency.
	SeverityWarning
	// SeverityError marks a field that could not be compiled faithfully.
	SeverityError
	// SeverityCritical marks a schema that cannot be emitted correctly.
	SeverityCritical
)

var names = [...]string{
	SeverityInfo:     "info",
	SeverityWarning:  "warning",
	SeverityError:    "error",
	SeverityCritical: "critical",
}

var symbols = [...]string{
	SeverityInfo:     "ℹ",
	SeverityWarning:  "⚠",
	SeverityError:    "✗",
	SeverityCritical: "✗",
}

func (s Severity) valid() bool { return s >= SeverityInfo && s <= SeverityCritical }

func (s Severity) String() string {
	if !s.valid() {
		return "unknown"
	}
	return names[s]
}

// Symbol returns the single-rune marker used in CLI output.
func (s Severity) Symbol() string {
	if !s.valid() {
		return "?"
	}
	return symbols[s]
}

// AtLeast reports whether s is as severe as floor or more.
func (s Severity) AtLeast(floor Severity) bool { return s >= floor }

// Blocking reports whether s fails a compile run.
func (s Severity) Blocking() bool { return s.AtLeast(SeverityError) }

// Parse returns the Severity named by text.
func Parse(text string) (Severity, error) {
	for i, n := range names {
		if n == text {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", text)
}

// MarshalText implements encoding.TextMarshaler so reports render the level name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
