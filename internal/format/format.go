// Package format turns per-iteration tokens into the final output string.
package format

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/fizzbuzz/internal/ir"
)

// Options configures the shape of the output.
type Options struct {
	// Separator is inserted between tokens, never after the last one.
	Separator string

	// Case is applied to every token before joining.
	Case ir.Case
}

// FromIR converts the formatting block of a rule set.
func FromIR(o ir.FormatOptions) Options {
	return Options{Separator: o.Separator, Case: o.Case}
}

// ParseCase maps a user-supplied name to an ir.Case.
// The empty string means no transformation.
func ParseCase(s string) (ir.Case, error) {
	if s == "" {
		return ir.CaseNone, nil
	}
	c := ir.Case(strings.ToLower(s))
	if !ir.ValidCases[c] {
		return "", fmt.Errorf("invalid case %q: must be one of none, lower, upper, title", s)
	}
	return c, nil
}

// Apply formats a single token. The iteration i and the total count t are
// not used by the current transformations; they are part of the signature
// so position-dependent formatting can be added without touching callers.
func (o Options) Apply(token string, i, t uint32) string {
	switch o.Case {
	case ir.CaseLower:
		return cases.Lower(language.Und).String(token)
	case ir.CaseUpper:
		return cases.Upper(language.Und).String(token)
	case ir.CaseTitle:
		return cases.Title(language.Und).String(token)
	default:
		return token
	}
}

// Join combines formatted tokens with the separator and trims trailing
// whitespace from the result.
func (o Options) Join(tokens []string) string {
	return strings.TrimRightFunc(strings.Join(tokens, o.Separator), unicode.IsSpace)
}
