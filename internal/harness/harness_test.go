package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRun_AllScenariosPass(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, "test-run-default", result.RunID)
		})
	}
}

func TestRun_OutputMismatchFails(t *testing.T) {
	s := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectation",
		Preset:      &PresetSpec{Fizz: 3, Buzz: 5},
		Iterations:  3,
		Format:      &FormatSpec{Separator: ptr(",")},
		Expect:      Expect{Output: ptr("1,2,Buzz"), Tokens: map[uint32]string{3: "Buzz"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "1,2,Fizz", result.Output)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "output mismatch")
	assert.Contains(t, result.Errors[1], `iteration 3: expected token "Buzz", got "Fizz"`)
}

func TestRun_ExpectedTokenOnSilentIteration(t *testing.T) {
	s := &Scenario{
		Name:        "silent",
		Description: "no rule matches 1",
		Rules:       "testdata/rules/tie.toml",
		Iterations:  2,
		Expect:      Expect{Tokens: map[uint32]string{1: "One"}},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "iteration was silent")
}

func TestRun_UnexpectedError(t *testing.T) {
	s := &Scenario{
		Name:        "unexpected",
		Description: "zero iterations without expecting it",
		Preset:      &PresetSpec{Fizz: 3, Buzz: 5},
		Expect:      Expect{Output: ptr("")},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.RunError, "NON_ZERO_VALUE")
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s := &Scenario{
		Name:        "no-error",
		Description: "expects an error that never happens",
		Preset:      &PresetSpec{Fizz: 3, Buzz: 5},
		Iterations:  5,
		Expect:      Expect{Error: "NON_ZERO_VALUE"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "run succeeded")
}

func TestRun_WrongErrorKind(t *testing.T) {
	s := &Scenario{
		Name:        "wrong-error",
		Description: "zero divisor is not a rule configuration error",
		Preset:      &PresetSpec{Fizz: 0, Buzz: 5},
		Iterations:  5,
		Expect:      Expect{Error: "INVALID_RULE_CONFIGURATION"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "NON_ZERO_VALUE")
}

func TestRun_RuleFileLoadFailure(t *testing.T) {
	s := &Scenario{
		Name:        "missing",
		Description: "rule file does not exist",
		Rules:       "testdata/rules/missing.yaml",
		Iterations:  5,
		Expect:      Expect{Output: ptr("")},
	}

	_, err := Run(s)
	assert.ErrorContains(t, err, "failed to load rules")
}

func TestRun_FixedRunID(t *testing.T) {
	s := &Scenario{
		Name:        "run-id",
		Description: "explicit run id",
		Preset:      &PresetSpec{Fizz: 3, Buzz: 5},
		Iterations:  1,
		Expect:      Expect{Output: ptr("1")},
		RunID:       "run-0001",
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Equal(t, "run-0001", result.RunID)
}

func TestRunWithLogger_LogsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := &Scenario{
		Name:        "logged",
		Description: "logs carry the run id",
		Preset:      &PresetSpec{Fizz: 3, Buzz: 5},
		Iterations:  3,
		Expect:      Expect{Tokens: map[uint32]string{3: "Fizz"}},
		RunID:       "run-logged",
	}

	result, err := RunWithLogger(s, logger)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Contains(t, buf.String(), "run_id=run-logged")
	assert.Contains(t, buf.String(), "scenario=logged")
}

func TestRun_TraceMatchesOutput(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/custom_labels.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	tokens := make([]string, len(result.Trace))
	for i, e := range result.Trace {
		tokens[i] = e.Token
	}
	assert.Equal(t, result.Output, joinTokens(tokens, " "))
}

func joinTokens(tokens []string, sep string) string {
	var buf bytes.Buffer
	for i, tok := range tokens {
		if i > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(tok)
	}
	return buf.String()
}
