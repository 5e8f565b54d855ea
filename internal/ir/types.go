package ir

// RuleKind identifies which variant a Rule is.
type RuleKind string

const (
	// KindFixed emits a constant token when every divisor divides the iteration.
	KindFixed RuleKind = "fixed"

	// KindStreak emits a token plus one suffix per uninterrupted prior
	// clean division by its divisor.
	KindStreak RuleKind = "streak"

	// KindNumeric always matches with priority 0 and emits the iteration number.
	KindNumeric RuleKind = "numeric"
)

// ValidRuleKinds defines the kinds a rule file may use.
var ValidRuleKinds = map[RuleKind]bool{
	KindFixed:   true,
	KindStreak:  true,
	KindNumeric: true,
}

// Rule is the serializable form of a single token rule.
//
// Which fields are meaningful depends on Kind:
//   - fixed:   Token, Priority, Divisors
//   - streak:  Token, Suffix, Priority, Divisor, Rivals
//   - numeric: none (priority is always 0)
type Rule struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Kind     RuleKind `json:"kind" yaml:"kind" toml:"kind"`
	Token    string   `json:"token,omitempty" yaml:"token,omitempty" toml:"token,omitempty"`
	Suffix   string   `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty"`
	Priority uint32   `json:"priority" yaml:"priority,omitempty" toml:"priority,omitempty"`
	Divisors []uint32 `json:"divisors,omitempty" yaml:"divisors,omitempty" toml:"divisors,omitempty"`
	Divisor  uint32   `json:"divisor,omitempty" yaml:"divisor,omitempty" toml:"divisor,omitempty"`
	Rivals   []uint32 `json:"rivals,omitempty" yaml:"rivals,omitempty" toml:"rivals,omitempty"`
}

// Case selects the case transformation applied to every emitted token.
type Case string

const (
	CaseNone  Case = "none"
	CaseLower Case = "lower"
	CaseUpper Case = "upper"
	CaseTitle Case = "title"
)

// ValidCases defines the allowed case transformations.
var ValidCases = map[Case]bool{
	CaseNone:  true,
	CaseLower: true,
	CaseUpper: true,
	CaseTitle: true,
}

// FormatOptions configures how tokens are combined into the final output.
// The zero value joins tokens without a separator and leaves case untouched.
type FormatOptions struct {
	Separator string `json:"separator" yaml:"separator" toml:"separator"`
	Case      Case   `json:"case,omitempty" yaml:"case,omitempty" toml:"case,omitempty"`
}

// RuleSet is a named, ordered collection of rules plus default formatting.
// Order does not decide the winner (priority does) except between rules of
// equal priority, where the engine's tie-break policy applies.
type RuleSet struct {
	Name   string        `json:"name" yaml:"name" toml:"name"`
	Rules  []Rule        `json:"rules" yaml:"rules" toml:"rules"`
	Format FormatOptions `json:"format" yaml:"format" toml:"format"`
}
