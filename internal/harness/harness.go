package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/fizzbuzz/internal/compiler"
	"github.com/roach88/fizzbuzz/internal/engine"
	"github.com/roach88/fizzbuzz/internal/format"
	"github.com/roach88/fizzbuzz/internal/ir"
	"github.com/roach88/fizzbuzz/internal/preset"
	"github.com/roach88/fizzbuzz/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a fixed run id.
type Harness struct {
	runIDs engine.RunIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result with logging
// suppressed.
//
// Execution flow:
//  1. Build the rule set from the preset or the rule file
//  2. Construct the tokenizer with the scenario's tie-break policy
//  3. Play the iterations and record the trace
//  4. Check expect clauses and assertions
//
// Engine errors (zero values, invalid rules) are part of the result so
// scenarios can expect them. Scenario and rule-file problems are returned
// as errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with a caller-supplied logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	h := &Harness{
		runIDs: testutil.NewFixedRunIDGenerator(scenario.RunID),
		logger: logger,
	}
	return h.run(scenario)
}

func (h *Harness) run(s *Scenario) (*Result, error) {
	runID := h.runIDs.Generate()
	logger := h.logger.With("scenario", s.Name, "run_id", runID)
	result := NewResult(runID)

	tieBreak, err := engine.ParseTieBreak(s.TieBreak)
	if err != nil {
		return nil, fmt.Errorf("tie_break: %w", err)
	}

	rs, runErr, err := h.ruleSet(s)
	if err != nil {
		return nil, err
	}

	if runErr == nil {
		opts, err := resolveFormat(rs, s.Format)
		if err != nil {
			return nil, err
		}
		runErr = h.play(s, rs, tieBreak, opts, result)
	}

	if runErr != nil {
		result.RunError = runErr.Error()
		logger.Debug("run failed", "error", runErr)
	} else {
		logger.Debug("run complete", "tokens", len(result.Trace))
	}

	for _, msg := range checkExpect(s.Expect, result, runErr) {
		result.AddError(msg)
	}
	if runErr == nil {
		for _, msg := range EvaluateAssertions(result, s.Assertions) {
			result.AddError(msg)
		}
	}

	return result, nil
}

// ruleSet builds the scenario's rule set. A preset that rejects its
// divisors yields a run error, which scenarios may expect; a rule file that
// cannot be loaded is a scenario error.
func (h *Harness) ruleSet(s *Scenario) (rs ir.RuleSet, runErr, err error) {
	if s.Preset != nil {
		rs, runErr = preset.Traditional(s.Preset.Fizz, s.Preset.Buzz, s.Preset.Labels())
		return rs, runErr, nil
	}
	loaded, err := compiler.LoadFile(s.Rules)
	if err != nil {
		return rs, nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return *loaded, nil, nil
}

// play runs the engine and fills the result's output and trace.
func (h *Harness) play(s *Scenario, rs ir.RuleSet, tb engine.TieBreak, opts format.Options, result *Result) error {
	rules, err := engine.FromRuleSet(rs)
	if err != nil {
		return err
	}
	tk, err := engine.NewTokenizer(rules, engine.WithTieBreak(tb), engine.WithLogger(h.logger))
	if err != nil {
		return err
	}

	decisions, err := tk.Trace(s.Iterations)
	if err != nil {
		return err
	}
	output, err := tk.ProduceOutput(s.Iterations, opts)
	if err != nil {
		return err
	}

	for _, d := range decisions {
		if d.Silent {
			continue
		}
		result.AddTrace(d.Iteration, d.Winner, opts.Apply(d.Token, d.Iteration, s.Iterations))
	}
	result.Output = output
	return nil
}

// resolveFormat applies the scenario's format overrides on top of the rule
// set's own formatting.
func resolveFormat(rs ir.RuleSet, override *FormatSpec) (format.Options, error) {
	opts := format.FromIR(rs.Format)
	if override == nil {
		return opts, nil
	}
	if override.Separator != nil {
		opts.Separator = *override.Separator
	}
	if override.Case != "" {
		c, err := format.ParseCase(override.Case)
		if err != nil {
			return opts, fmt.Errorf("format.case: %w", err)
		}
		opts.Case = c
	}
	return opts, nil
}

// checkExpect compares the run against the scenario's expect clause.
func checkExpect(expect Expect, result *Result, runErr error) []string {
	var errs []string

	if expect.Error != "" {
		switch {
		case runErr == nil:
			errs = append(errs, fmt.Sprintf("expected error containing %q, run succeeded", expect.Error))
		case !strings.Contains(runErr.Error(), expect.Error):
			errs = append(errs, fmt.Sprintf("expected error containing %q, got %q", expect.Error, runErr.Error()))
		}
		return errs
	}

	if runErr != nil {
		return append(errs, fmt.Sprintf("unexpected error: %v", runErr))
	}

	if expect.Output != nil && *expect.Output != result.Output {
		errs = append(errs, fmt.Sprintf("output mismatch:\n  expected: %q\n  actual:   %q", *expect.Output, result.Output))
	}

	for _, i := range sortedIterations(expect.Tokens) {
		want := expect.Tokens[i]
		got, ok := tokenAt(result.Trace, i)
		if !ok {
			errs = append(errs, fmt.Sprintf("iteration %d: expected token %q, iteration was silent", i, want))
			continue
		}
		if got.Token != want {
			errs = append(errs, fmt.Sprintf("iteration %d: expected token %q, got %q", i, want, got.Token))
		}
	}

	return errs
}
