package engine

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/fizzbuzz/internal/ir"
	"github.com/roach88/fizzbuzz/internal/streak"
)

// KindCustom marks rules built from caller-supplied functions.
// It never appears in rule files.
const KindCustom ir.RuleKind = "custom"

// NumericRuleName is the default name of the numeric fallback rule.
const NumericRuleName = "number"

// Rule is a single token rule. It is one of a closed set of variants
// (fixed, streak, numeric, custom) and every operation dispatches on the
// variant in one place.
//
// Rule values are immutable and safe to share. Construct them with
// NewFixed, NewStreak, Numeric, NewCustom or FromIR; the zero Rule is not
// usable.
type Rule struct {
	name     string
	kind     ir.RuleKind
	token    string
	suffix   string
	priority uint32

	// fixed
	divisors []uint32

	// streak
	divisor uint32
	rivals  []uint32

	// custom
	match    func(i uint32) bool
	tokenize func(i uint32) string
}

// NewFixed creates a rule that emits token when every divisor divides the
// iteration cleanly. With one divisor this produces "Fizz"-style output,
// with several it produces "FizzBuzz"-style output.
func NewFixed(token string, priority uint32, divisors ...uint32) (Rule, error) {
	if slices.Contains(divisors, 0) {
		return Rule{}, NewNonZeroError(token, "divisor")
	}
	if token == "" {
		return Rule{}, NewTokenConfigError("", "fixed rule token must be non-empty")
	}
	if len(divisors) == 0 {
		return Rule{}, NewRuleConfigError(token, "fixed rule needs at least one divisor; without one it matches every iteration")
	}
	return Rule{
		name:     token,
		kind:     ir.KindFixed,
		token:    token,
		priority: priority,
		divisors: slices.Clone(divisors),
	}, nil
}

// NewStreak creates a rule that emits token followed by suffix once for
// every clean division by divisor that preceded the current one without a
// rival divisor interrupting. The first division in a streak carries no
// suffix.
func NewStreak(token, suffix string, priority, divisor uint32, rivals ...uint32) (Rule, error) {
	if divisor == 0 {
		return Rule{}, NewNonZeroError(token, "divisor")
	}
	if slices.Contains(rivals, 0) {
		return Rule{}, NewNonZeroError(token, "rival")
	}
	if token == "" {
		return Rule{}, NewTokenConfigError("", "streak rule token must be non-empty")
	}
	return Rule{
		name:     token,
		kind:     ir.KindStreak,
		token:    token,
		suffix:   suffix,
		priority: priority,
		divisor:  divisor,
		rivals:   slices.Clone(rivals),
	}, nil
}

// Numeric returns the fallback rule. It always matches, has the lowest
// possible priority, and emits the iteration number in decimal.
func Numeric() Rule {
	return Rule{name: NumericRuleName, kind: ir.KindNumeric}
}

// NewCustom creates a rule from caller-supplied functions. Both functions
// must be pure: the engine may call them any number of times per iteration.
func NewCustom(name string, priority uint32, match func(i uint32) bool, tokenize func(i uint32) string) (Rule, error) {
	if match == nil || tokenize == nil {
		return Rule{}, NewTokenConfigError(name, "custom rule needs both a condition and a tokenize function")
	}
	return Rule{
		name:     name,
		kind:     KindCustom,
		priority: priority,
		match:    match,
		tokenize: tokenize,
	}, nil
}

// WithName returns a copy of r with a different name. Names identify rules
// in traces and error messages; they do not affect evaluation.
func (r Rule) WithName(name string) Rule {
	r.name = name
	return r
}

// Name returns the rule's name.
func (r Rule) Name() string { return r.name }

// Kind returns the rule's variant.
func (r Rule) Kind() ir.RuleKind { return r.kind }

// Priority returns the rule's priority. Higher wins.
func (r Rule) Priority() uint32 { return r.priority }

// Condition reports whether the rule applies to iteration i.
func (r Rule) Condition(i uint32) bool {
	switch r.kind {
	case ir.KindFixed:
		for _, d := range r.divisors {
			if i%d != 0 {
				return false
			}
		}
		return true
	case ir.KindStreak:
		return r.Streak(i) > 0
	case ir.KindNumeric:
		return true
	case KindCustom:
		return r.match(i)
	default:
		return false
	}
}

// Tokenize returns the token the rule emits for iteration i. It does not
// check Condition.
func (r Rule) Tokenize(i uint32) string {
	switch r.kind {
	case ir.KindFixed:
		return r.token
	case ir.KindStreak:
		n := r.Streak(i)
		if n <= 1 {
			return r.token
		}
		return r.token + strings.Repeat(r.suffix, int(n-1))
	case ir.KindNumeric:
		return strconv.FormatUint(uint64(i), 10)
	case KindCustom:
		return r.tokenize(i)
	default:
		return ""
	}
}

// Streak returns the uninterrupted division count for streak rules and 0
// for every other variant.
func (r Rule) Streak(i uint32) uint32 {
	if r.kind != ir.KindStreak {
		return 0
	}
	return streak.CountUninterrupted(i, r.divisor, r.rivals)
}

// String implements fmt.Stringer for log output.
func (r Rule) String() string {
	switch r.kind {
	case ir.KindFixed:
		return fmt.Sprintf("%s(fixed %q p=%d divisors=%v)", r.name, r.token, r.priority, r.divisors)
	case ir.KindStreak:
		return fmt.Sprintf("%s(streak %q+%q p=%d divisor=%d rivals=%v)", r.name, r.token, r.suffix, r.priority, r.divisor, r.rivals)
	default:
		return fmt.Sprintf("%s(%s p=%d)", r.name, r.kind, r.priority)
	}
}

// FromIR builds an executable rule from its serialized form. The ir name
// overrides the default name when set.
func FromIR(def ir.Rule) (Rule, error) {
	var (
		r   Rule
		err error
	)
	switch def.Kind {
	case ir.KindFixed:
		r, err = NewFixed(def.Token, def.Priority, def.Divisors...)
	case ir.KindStreak:
		r, err = NewStreak(def.Token, def.Suffix, def.Priority, def.Divisor, def.Rivals...)
	case ir.KindNumeric:
		r = Numeric()
	default:
		return Rule{}, NewRuleConfigError(def.Name, "unknown rule kind %q", def.Kind)
	}
	if err != nil {
		var e *Error
		if def.Name != "" && errors.As(err, &e) {
			e.Rule = def.Name
		}
		return Rule{}, err
	}
	if def.Name != "" {
		r = r.WithName(def.Name)
	}
	return r, nil
}

// FromRuleSet builds executable rules for every rule in rs, in order.
// It stops at the first invalid rule.
func FromRuleSet(rs ir.RuleSet) ([]Rule, error) {
	rules := make([]Rule, 0, len(rs.Rules))
	for i, def := range rs.Rules {
		r, err := FromIR(def)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
