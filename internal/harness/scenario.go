package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/fizzbuzz/internal/engine"
	"github.com/roach88/fizzbuzz/internal/format"
	"github.com/roach88/fizzbuzz/internal/preset"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Preset selects the traditional streak game. Exclusive with Rules.
	Preset *PresetSpec `yaml:"preset,omitempty"`

	// Rules is a path to a rule file (.cue, .yaml, .yml, .toml).
	// Relative paths are resolved against the scenario file location.
	Rules string `yaml:"rules,omitempty"`

	// Iterations is the number of iterations to play. Zero is allowed so
	// scenarios can assert on the resulting error.
	Iterations uint32 `yaml:"iterations"`

	// Format overrides the rule set's formatting.
	Format *FormatSpec `yaml:"format,omitempty"`

	// TieBreak is "first" or "last" (default).
	TieBreak string `yaml:"tie_break,omitempty"`

	// Expect holds the expected output or error.
	Expect Expect `yaml:"expect"`

	// Assertions validate individual iterations of the trace.
	// Supported types: token_at, winner_at, token_count, silent
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is an optional fixed run id for deterministic tests.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// PresetSpec configures the traditional preset.
type PresetSpec struct {
	Fizz          uint32 `yaml:"fizz"`
	Buzz          uint32 `yaml:"buzz"`
	FizzLabel     string `yaml:"fizz_label,omitempty"`
	BuzzLabel     string `yaml:"buzz_label,omitempty"`
	FizzBuzzLabel string `yaml:"fizzbuzz_label,omitempty"`
	Suffix        string `yaml:"suffix,omitempty"`
}

// Labels returns the preset labels, with defaults for unset fields.
func (p PresetSpec) Labels() preset.Labels {
	return preset.Labels{
		Fizz:     p.FizzLabel,
		Buzz:     p.BuzzLabel,
		FizzBuzz: p.FizzBuzzLabel,
		Suffix:   p.Suffix,
	}
}

// FormatSpec overrides output formatting. A nil Separator keeps the rule
// set's separator; an empty Case keeps the rule set's case.
type FormatSpec struct {
	Separator *string `yaml:"separator,omitempty"`
	Case      string  `yaml:"case,omitempty"`
}

// Expect specifies the expected result of the whole run.
type Expect struct {
	// Output is the exact expected output. Nil skips the check.
	Output *string `yaml:"output,omitempty"`

	// Tokens maps iterations to the token they must emit.
	Tokens map[uint32]string `yaml:"tokens,omitempty"`

	// Error is a substring the run error must contain. When set, the run
	// must fail and produce no output.
	Error string `yaml:"error,omitempty"`
}

func (e Expect) empty() bool {
	return e.Output == nil && len(e.Tokens) == 0 && e.Error == ""
}

// Assertion validates one property of the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "token_at": Iteration emitted Token
	// - "winner_at": Iteration was won by Rule
	// - "token_count": Token was emitted exactly Count times
	// - "silent": no rule matched Iteration
	Type string `yaml:"type"`

	// Iteration is the iteration to inspect (token_at, winner_at, silent).
	Iteration uint32 `yaml:"iteration,omitempty"`

	// Token is the expected formatted token (token_at, token_count).
	Token string `yaml:"token,omitempty"`

	// Rule is the expected winning rule name (winner_at).
	Rule string `yaml:"rule,omitempty"`

	// Count is the expected number of occurrences (token_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTokenAt    = "token_at"
	AssertWinnerAt   = "winner_at"
	AssertTokenCount = "token_count"
	AssertSilent     = "silent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative rules path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Rules != "" {
		if _, err := os.Stat(scenario.Rules); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: rules file not found: %s", scenario.Rules)
		}
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without touching the filesystem.
// Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. It stops at the first invalid scenario.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Preset == nil) == (s.Rules == "") {
		return fmt.Errorf("exactly one of preset or rules is required")
	}

	if s.Expect.empty() && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect.Error != "" && (s.Expect.Output != nil || len(s.Expect.Tokens) > 0 || len(s.Assertions) > 0) {
		return fmt.Errorf("expect.error cannot be combined with output, tokens or assertions")
	}

	if _, err := engine.ParseTieBreak(s.TieBreak); err != nil {
		return fmt.Errorf("tie_break: %w", err)
	}

	if s.Format != nil {
		if _, err := format.ParseCase(s.Format.Case); err != nil {
			return fmt.Errorf("format.case: %w", err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTokenAt:
		if a.Iteration == 0 {
			return fmt.Errorf("assertions[%d]: iteration is required for token_at", index)
		}
	case AssertWinnerAt:
		if a.Iteration == 0 {
			return fmt.Errorf("assertions[%d]: iteration is required for winner_at", index)
		}
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for winner_at", index)
		}
	case AssertTokenCount:
		if a.Token == "" {
			return fmt.Errorf("assertions[%d]: token is required for token_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for token_count", index)
		}
	case AssertSilent:
		if a.Iteration == 0 {
			return fmt.Errorf("assertions[%d]: iteration is required for silent", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
