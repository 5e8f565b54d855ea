// Package preset builds ready-made rule sets for the classic game.
//
// The presets double as examples of the rule API: callers that need a
// different game can assemble their own ir.RuleSet the same way.
package preset

import (
	"github.com/roach88/fizzbuzz/internal/engine"
	"github.com/roach88/fizzbuzz/internal/ir"
)

// Labels holds the tokens a preset emits. Empty fields fall back to
// DefaultLabels.
type Labels struct {
	Fizz     string
	Buzz     string
	FizzBuzz string
	Suffix   string
}

// DefaultLabels returns Fizz, Buzz, FizzBuzz and "+".
func DefaultLabels() Labels {
	return Labels{Fizz: "Fizz", Buzz: "Buzz", FizzBuzz: "FizzBuzz", Suffix: "+"}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.Fizz == "" {
		l.Fizz = d.Fizz
	}
	if l.Buzz == "" {
		l.Buzz = d.Buzz
	}
	if l.FizzBuzz == "" {
		l.FizzBuzz = d.FizzBuzz
	}
	if l.Suffix == "" {
		l.Suffix = d.Suffix
	}
	return l
}

// Traditional returns the streak variant of FizzBuzz played by the CLI:
//
//   - multiples of f print Fizz, multiples of b print Buzz
//   - multiples of both print FizzBuzz (priority 2)
//   - repeated Fizz (or Buzz) divisions without the other divisor in
//     between append the suffix once per repetition: Fizz, Fizz+, Fizz++
//   - everything else prints the number
//
// When one divisor divides the other, the streak rule of the larger one (or
// both, for equal divisors) could only ever fire on iterations the FizzBuzz rule already wins, and the
// rule-set validator rejects it. Such a streak rule is left out; the output
// is unchanged.
func Traditional(f, b uint32, labels Labels) (ir.RuleSet, error) {
	if f == 0 {
		return ir.RuleSet{}, engine.NewNonZeroError("fizz", "fizz divisor")
	}
	if b == 0 {
		return ir.RuleSet{}, engine.NewNonZeroError("buzz", "buzz divisor")
	}
	l := labels.withDefaults()

	rules := []ir.Rule{{Name: engine.NumericRuleName, Kind: ir.KindNumeric}}
	if f%b != 0 {
		rules = append(rules, ir.Rule{
			Name: "fizz", Kind: ir.KindStreak, Token: l.Fizz, Suffix: l.Suffix,
			Priority: 1, Divisor: f, Rivals: []uint32{b},
		})
	}
	if b%f != 0 {
		rules = append(rules, ir.Rule{
			Name: "buzz", Kind: ir.KindStreak, Token: l.Buzz, Suffix: l.Suffix,
			Priority: 1, Divisor: b, Rivals: []uint32{f},
		})
	}
	rules = append(rules, ir.Rule{
		Name: "fizzbuzz", Kind: ir.KindFixed, Token: l.FizzBuzz,
		Priority: 2, Divisors: []uint32{f, b},
	})

	return ir.RuleSet{
		Name:   "traditional",
		Rules:  rules,
		Format: ir.FormatOptions{Separator: "\n", Case: ir.CaseNone},
	}, nil
}

// Plain returns the textbook game without streaks: Fizz, Buzz, FizzBuzz or
// the number.
func Plain(f, b uint32, labels Labels) (ir.RuleSet, error) {
	if f == 0 {
		return ir.RuleSet{}, engine.NewNonZeroError("fizz", "fizz divisor")
	}
	if b == 0 {
		return ir.RuleSet{}, engine.NewNonZeroError("buzz", "buzz divisor")
	}
	l := labels.withDefaults()

	return ir.RuleSet{
		Name: "plain",
		Rules: []ir.Rule{
			{Name: engine.NumericRuleName, Kind: ir.KindNumeric},
			{Name: "fizz", Kind: ir.KindFixed, Token: l.Fizz, Priority: 1, Divisors: []uint32{f}},
			{Name: "buzz", Kind: ir.KindFixed, Token: l.Buzz, Priority: 1, Divisors: []uint32{b}},
			{Name: "fizzbuzz", Kind: ir.KindFixed, Token: l.FizzBuzz, Priority: 2, Divisors: []uint32{f, b}},
		},
		Format: ir.FormatOptions{Separator: "\n", Case: ir.CaseNone},
	}, nil
}
