package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/fizzbuzz/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrRuleSetEmpty    = "E101" // at least one rule required
	ErrUnknownKind     = "E102" // kind is not fixed, streak or numeric
	ErrEmptyToken      = "E103" // fixed/streak token must be non-empty
	ErrZeroValue       = "E104" // divisor or rival is zero
	ErrNoDivisors      = "E105" // fixed rule without divisors
	ErrSelfRival       = "E106" // streak divisor listed among its rivals
	ErrDeadRival       = "E107" // rival divides the streak divisor
	ErrDuplicateName   = "E108" // duplicate explicit rule name
	ErrInvalidCase     = "E109" // unknown case transformation
	ErrUnusedRuleField = "E110" // field set that the rule kind ignores
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled rule set.
// Returns all errors found (does not fail-fast).
//
// A rule set that passes Validate is accepted by engine.FromRuleSet and
// engine.NewTokenizer.
func Validate(rs ir.RuleSet) []ValidationError {
	var errs []ValidationError

	// E101: at least one rule
	if len(rs.Rules) == 0 {
		errs = append(errs, ValidationError{
			Field:   "rules",
			Message: "at least one rule is required",
			Code:    ErrRuleSetEmpty,
		})
	}

	// E109: case must be known
	if rs.Format.Case != "" && !ir.ValidCases[rs.Format.Case] {
		errs = append(errs, ValidationError{
			Field:   "format.case",
			Message: fmt.Sprintf("invalid case %q, must be \"none\", \"lower\", \"upper\" or \"title\"", rs.Format.Case),
			Code:    ErrInvalidCase,
		})
	}

	names := make(map[string]int)
	for i, r := range rs.Rules {
		field := fmt.Sprintf("rules[%d]", i)

		// E108: explicit names must be unique
		if r.Name != "" {
			if prev, ok := names[r.Name]; ok {
				errs = append(errs, ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("duplicate rule name %q (first used by rules[%d])", r.Name, prev),
					Code:    ErrDuplicateName,
				})
			} else {
				names[r.Name] = i
			}
		}

		switch r.Kind {
		case ir.KindFixed:
			errs = append(errs, validateFixed(r, field)...)
		case ir.KindStreak:
			errs = append(errs, validateStreak(r, field)...)
		case ir.KindNumeric:
			errs = append(errs, validateNumeric(r, field)...)
		default:
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("unknown rule kind %q, must be \"fixed\", \"streak\" or \"numeric\"", r.Kind),
				Code:    ErrUnknownKind,
			})
		}
	}

	return errs
}

func validateFixed(r ir.Rule, field string) []ValidationError {
	var errs []ValidationError

	// E103
	if r.Token == "" {
		errs = append(errs, emptyToken(field))
	}

	// E105
	if len(r.Divisors) == 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".divisors",
			Message: "fixed rule needs at least one divisor",
			Code:    ErrNoDivisors,
		})
	}

	// E104
	for j, d := range r.Divisors {
		if d == 0 {
			errs = append(errs, zeroValue(fmt.Sprintf("%s.divisors[%d]", field, j)))
		}
	}

	// E110
	if r.Suffix != "" || r.Divisor != 0 || len(r.Rivals) > 0 {
		errs = append(errs, unusedFields(field, r.Kind, "suffix, divisor, rivals"))
	}

	return errs
}

func validateStreak(r ir.Rule, field string) []ValidationError {
	var errs []ValidationError

	// E103
	if r.Token == "" {
		errs = append(errs, emptyToken(field))
	}

	// E104
	if r.Divisor == 0 {
		errs = append(errs, zeroValue(field+".divisor"))
	}

	for j, rival := range r.Rivals {
		rivalField := fmt.Sprintf("%s.rivals[%d]", field, j)
		switch {
		case rival == 0:
			errs = append(errs, zeroValue(rivalField))
		case r.Divisor == 0:
			// already reported
		case rival == r.Divisor:
			// E106
			errs = append(errs, ValidationError{
				Field:   rivalField,
				Message: fmt.Sprintf("divisor %d is listed among its own rivals", r.Divisor),
				Code:    ErrSelfRival,
			})
		case r.Divisor%rival == 0:
			// E107
			errs = append(errs, ValidationError{
				Field:   rivalField,
				Message: fmt.Sprintf("rival %d divides divisor %d; the streak can never grow", rival, r.Divisor),
				Code:    ErrDeadRival,
			})
		}
	}

	// E110
	if len(r.Divisors) > 0 {
		errs = append(errs, unusedFields(field, r.Kind, "divisors"))
	}

	return errs
}

func validateNumeric(r ir.Rule, field string) []ValidationError {
	var set []string
	if r.Token != "" {
		set = append(set, "token")
	}
	if r.Suffix != "" {
		set = append(set, "suffix")
	}
	if r.Priority != 0 {
		set = append(set, "priority")
	}
	if len(r.Divisors) > 0 {
		set = append(set, "divisors")
	}
	if r.Divisor != 0 {
		set = append(set, "divisor")
	}
	if len(r.Rivals) > 0 {
		set = append(set, "rivals")
	}
	if len(set) == 0 {
		return nil
	}
	return []ValidationError{unusedFields(field, r.Kind, strings.Join(set, ", "))}
}

func emptyToken(field string) ValidationError {
	return ValidationError{
		Field:   field + ".token",
		Message: "token must be non-empty",
		Code:    ErrEmptyToken,
	}
}

func zeroValue(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: "must be greater than zero",
		Code:    ErrZeroValue,
	}
}

func unusedFields(field string, kind ir.RuleKind, names string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%s rule does not use: %s", kind, names),
		Code:    ErrUnusedRuleField,
	}
}
