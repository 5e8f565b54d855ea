package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/fizzbuzz/internal/format"
)

// preallocLimit caps up-front slice allocation for large iteration counts.
const preallocLimit = 4096

// TieBreak decides between matching rules that share the highest priority.
type TieBreak int

const (
	// TieBreakLast selects the last matching rule in configuration order.
	TieBreakLast TieBreak = iota

	// TieBreakFirst selects the first matching rule in configuration order.
	TieBreakFirst
)

// String returns the flag spelling of the policy.
func (tb TieBreak) String() string {
	switch tb {
	case TieBreakFirst:
		return "first"
	default:
		return "last"
	}
}

// ParseTieBreak maps "first" or "last" to a TieBreak. The empty string
// selects the default, TieBreakLast.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(s) {
	case "", "last":
		return TieBreakLast, nil
	case "first":
		return TieBreakFirst, nil
	default:
		return TieBreakLast, fmt.Errorf("invalid tie-break %q: must be first or last", s)
	}
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// WithTieBreak sets the policy for equal-priority matches.
//
// Default: TieBreakLast
func WithTieBreak(tb TieBreak) TokenizerOption {
	return func(t *Tokenizer) {
		t.tieBreak = tb
	}
}

// WithLogger sets the logger that receives per-iteration debug records.
//
// Default: slog.Default()
func WithLogger(logger *slog.Logger) TokenizerOption {
	return func(t *Tokenizer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tokenizer evaluates a fixed list of rules over iterations 1..=t.
//
// INVARIANTS:
//   - the rule list never changes after construction
//   - evaluation of one iteration never depends on another
type Tokenizer struct {
	rules    []Rule
	tieBreak TieBreak
	logger   *slog.Logger
}

// NewTokenizer validates rules and creates a Tokenizer that owns a copy of them.
func NewTokenizer(rules []Rule, opts ...TokenizerOption) (*Tokenizer, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	t := &Tokenizer{
		rules:    slices.Clone(rules),
		tieBreak: TieBreakLast,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Rules returns a copy of the configured rules in order.
func (t *Tokenizer) Rules() []Rule {
	return slices.Clone(t.rules)
}

// TieBreak returns the configured tie-break policy.
func (t *Tokenizer) TieBreak() TieBreak {
	return t.tieBreak
}

// Candidate is a rule whose condition held for an iteration.
type Candidate struct {
	Rule     string `json:"rule"`
	Priority uint32 `json:"priority"`
	Token    string `json:"token"`
	Streak   uint32 `json:"streak,omitempty"`
}

// Decision records how one iteration was resolved.
type Decision struct {
	Iteration uint32      `json:"iteration"`
	Winner    string      `json:"winner,omitempty"`
	Token     string      `json:"token,omitempty"`
	Silent    bool        `json:"silent,omitempty"`
	Matched   []Candidate `json:"matched"`
}

// winner returns the index of the rule that wins iteration i, or -1 if no
// rule matches.
func (t *Tokenizer) winner(i uint32) int {
	best := -1
	for idx, r := range t.rules {
		if !r.Condition(i) {
			continue
		}
		if best == -1 {
			best = idx
			continue
		}
		p, bestP := r.Priority(), t.rules[best].Priority()
		if p > bestP || (p == bestP && t.tieBreak == TieBreakLast) {
			best = idx
		}
	}
	return best
}

// Evaluate resolves iteration i and reports every matching rule alongside
// the winner. The token is unformatted.
func (t *Tokenizer) Evaluate(i uint32) Decision {
	d := Decision{Iteration: i, Matched: []Candidate{}}
	for _, r := range t.rules {
		if !r.Condition(i) {
			continue
		}
		d.Matched = append(d.Matched, Candidate{
			Rule:     r.Name(),
			Priority: r.Priority(),
			Token:    r.Tokenize(i),
			Streak:   r.Streak(i),
		})
	}

	idx := t.winner(i)
	if idx < 0 {
		d.Silent = true
		return d
	}
	d.Winner = t.rules[idx].Name()
	d.Token = t.rules[idx].Tokenize(i)
	return d
}

// Trace evaluates iterations 1..=n and returns every decision.
func (t *Tokenizer) Trace(n uint32) ([]Decision, error) {
	if n == 0 {
		return nil, NewNonZeroError("", "iteration count")
	}
	decisions := make([]Decision, 0, min(n, preallocLimit))
	for i := uint32(1); i <= n; i++ {
		decisions = append(decisions, t.Evaluate(i))
	}
	return decisions, nil
}

// ProduceOutput plays iterations 1..=n and returns the formatted tokens
// joined by the configured separator. Iterations no rule matches produce
// nothing; include Numeric() to guarantee a token per iteration.
func (t *Tokenizer) ProduceOutput(n uint32, options format.Options) (string, error) {
	if n == 0 {
		return "", NewNonZeroError("", "iteration count")
	}

	tokens := make([]string, 0, min(n, preallocLimit))
	for i := uint32(1); i <= n; i++ {
		idx := t.winner(i)
		if idx < 0 {
			t.logger.Debug("silent iteration", "iteration", i)
			continue
		}
		token := options.Apply(t.rules[idx].Tokenize(i), i, n)
		t.logger.Debug("token emitted", "iteration", i, "rule", t.rules[idx].Name(), "token", token)
		tokens = append(tokens, token)
	}
	return options.Join(tokens), nil
}
