package cli

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fizzbuzz/internal/engine"
)

func TestTraceTraditionalText(t *testing.T) {
	stdout, _, err := executeCommand(t, "trace", "-t", "8", "-f", "2", "-b", "7")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Trace: traditional")
	assert.Contains(t, stdout, "tie-break last")
	assert.Regexp(t, regexp.MustCompile(`ITER\s+WINNER\s+TOKEN\s+MATCHED`), stdout)
	assert.Regexp(t, regexp.MustCompile(`(?m)^1\s+number\s+1\s+number\(0\)$`), stdout)
	assert.Regexp(t, regexp.MustCompile(`(?m)^6\s+fizz\s+Fizz\+\+\s+number\(0\) fizz\(1, streak 3\)$`), stdout)
	assert.Regexp(t, regexp.MustCompile(`(?m)^7\s+buzz\s+Buzz\s+number\(0\) buzz\(1, streak 1\)$`), stdout)
	assert.Contains(t, stdout, "8 iteration(s), 0 silent")
}

func TestTraceRuleFileSilentIterations(t *testing.T) {
	stdout, _, err := executeCommand(t, "trace", tieRules, "-t", "6", "--tie-break", "first")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`(?m)^1\s+-\s+-\s+-$`), stdout)
	assert.Regexp(t, regexp.MustCompile(`(?m)^6\s+even\s+Even\s+even\(1\) triple\(1\)$`), stdout)
	assert.Contains(t, stdout, "6 iteration(s), 2 silent")
}

func TestTraceJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "trace", "-t", "8", "-f", "2", "-b", "7", "--format", "json", "--case", "upper")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	result := resp.Data
	assert.Equal(t, "traditional", result.RuleSet)
	assert.Equal(t, "last", result.TieBreak)
	require.Len(t, result.Decisions, 8)

	six := result.Decisions[5]
	assert.Equal(t, uint32(6), six.Iteration)
	assert.Equal(t, "fizz", six.Winner)
	assert.Equal(t, "FIZZ++", six.Token)
	assert.Equal(t, []engine.Candidate{
		{Rule: "number", Priority: 0, Token: "6"},
		{Rule: "fizz", Priority: 1, Token: "Fizz++", Streak: 3},
	}, six.Matched)

	assert.Equal(t, uint32(8), result.Stats.Iterations)
	assert.Equal(t, 0, result.Stats.Silent)
	assert.Equal(t, map[string]int{"number": 3, "fizz": 4, "buzz": 1}, result.Stats.Wins)
}

func TestTraceNeedsOneSource(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"neither", []string{"trace", "-t", "5"}},
		{"both", []string{"trace", classicRules, "-t", "5", "-f", "2", "-b", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "either a rules file or --fizz and --buzz")
		})
	}
}

func TestTraceFizzWithoutBuzz(t *testing.T) {
	_, _, err := executeCommand(t, "trace", "-t", "5", "-f", "2")
	require.Error(t, err)
}

func TestTraceZeroIterations(t *testing.T) {
	stdout, _, err := executeCommand(t, "trace", classicRules, "-t", "0")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E010]")
}
