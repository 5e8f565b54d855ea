package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayStreakGame(t *testing.T) {
	stdout, _, err := executeCommand(t, "play", "-t", "20", "-f", "2", "-b", "7")
	require.NoError(t, err)

	want := "iterations=20 fizz=2 buzz=7\n" +
		"1\nFizz\n3\nFizz+\n5\nFizz++\nBuzz\nFizz\n9\nFizz+\n11\nFizz++\n13\nFizzBuzz\n15\nFizz\n17\nFizz+\n19\nFizz++\n"
	assert.Equal(t, want, stdout)
}

func TestPlayOutputs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "equal_divisors",
			args: []string{"-t", "10", "-f", "2", "-b", "2"},
			want: "1,FizzBuzz,3,FizzBuzz,5,FizzBuzz,7,FizzBuzz,9,FizzBuzz",
		},
		{
			name: "buzz_streak",
			args: []string{"-t", "15", "-f", "5", "-b", "3"},
			want: "1,2,Buzz,4,Fizz,Buzz,7,8,Buzz+,Fizz,11,Buzz,13,14,FizzBuzz",
		},
		{
			name: "plain",
			args: []string{"-t", "15", "-f", "3", "-b", "5", "--plain"},
			want: "1,2,Fizz,4,Buzz,Fizz,7,8,Fizz,Buzz,11,Fizz,13,14,FizzBuzz",
		},
		{
			name: "lower_case_suffix",
			args: []string{"-t", "8", "-f", "2", "-b", "7", "--case", "lower", "--suffix", "*"},
			want: "1,fizz,3,fizz*,5,fizz**,buzz,fizz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"play", "--format", "json", "--separator", ","}, tt.args...)
			stdout, _, err := executeCommand(t, args...)
			require.NoError(t, err)

			var resp struct {
				Status string     `json:"status"`
				Data   PlayResult `json:"data"`
				RunID  string     `json:"run_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, "test-run", resp.RunID)
			assert.Equal(t, tt.want, resp.Data.Output)
			assert.Len(t, resp.Data.Hash, 64)
		})
	}
}

func TestPlayJSONEchoesConfig(t *testing.T) {
	stdout, _, err := executeCommand(t, "play", "--format", "json", "-t", "3", "-f", "2", "-b", "7")
	require.NoError(t, err)

	var resp struct {
		Data PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, PlayConfig{Iterations: 3, Fizz: 2, Buzz: 7}, resp.Data.Config)
	assert.Equal(t, "traditional", resp.Data.RuleSet)
	assert.Equal(t, "1\nFizz\n3", resp.Data.Output)
}

func TestPlaySeparatorEscapes(t *testing.T) {
	stdout, _, err := executeCommand(t, "play", "-t", "3", "-f", "2", "-b", "7", "--separator", `\t`)
	require.NoError(t, err)
	assert.Equal(t, "iterations=3 fizz=2 buzz=7\n1\tFizz\t3\n", stdout)
}

func TestPlayZeroIterations(t *testing.T) {
	stdout, _, err := executeCommand(t, "play", "-t", "0", "-f", "2", "-b", "7")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E010]")
	assert.Contains(t, stdout, "iteration count is zero")
	assert.NotContains(t, stdout, "iterations=0")
}

func TestPlayZeroDivisor(t *testing.T) {
	for _, args := range [][]string{
		{"-t", "5", "-f", "0", "-b", "7"},
		{"-t", "5", "-f", "2", "-b", "0"},
	} {
		stdout, _, err := executeCommand(t, append([]string{"play", "--format", "json"}, args...)...)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeNonZero, resp.Error.Code)
	}
}

func TestPlayMissingRequiredFlags(t *testing.T) {
	_, _, err := executeCommand(t, "play", "-t", "5", "-f", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buzz")
	assert.NotEqual(t, ExitSuccess, GetExitCode(err))
}

func TestPlayInvalidFlagValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"tie_break", []string{"--tie-break", "middle"}},
		{"case", []string{"--case", "shouting"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"play", "-t", "5", "-f", "2", "-b", "7"}, tt.args...)
			stdout, _, err := executeCommand(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "Error [E004]")
		})
	}
}

func TestPlayNegativeIterationsRejected(t *testing.T) {
	_, _, err := executeCommand(t, "play", "-t", "-3", "-f", "2", "-b", "7")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
