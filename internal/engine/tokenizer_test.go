package engine

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fizzbuzz/internal/format"
	"github.com/roach88/fizzbuzz/internal/ir"
)

func classicRules(t *testing.T) []Rule {
	t.Helper()
	return []Rule{
		mustFixed(t, "Fizz", 1, 2),
		mustFixed(t, "Buzz", 1, 3),
		mustFixed(t, "FizzBuzz", 2, 2, 3),
		Numeric(),
	}
}

func TestTokenizerProduceOutput(t *testing.T) {
	tk, err := NewTokenizer(classicRules(t))
	require.NoError(t, err)

	out, err := tk.ProduceOutput(6, format.Options{Separator: "\n", Case: ir.CaseLower})
	require.NoError(t, err)
	assert.Equal(t, "1\nfizz\nbuzz\nfizz\n5\nfizzbuzz", out)
}

func TestTokenizerStreakRules(t *testing.T) {
	tk, err := NewTokenizer([]Rule{
		Numeric(),
		mustStreak(t, "Fizz", "+", 1, 2, 7),
		mustStreak(t, "Buzz", "+", 1, 7, 2),
		mustFixed(t, "FizzBuzz", 2, 2, 7),
	})
	require.NoError(t, err)

	out, err := tk.ProduceOutput(20, format.Options{Separator: ","})
	require.NoError(t, err)
	assert.Equal(t, "1,Fizz,3,Fizz+,5,Fizz++,Buzz,Fizz,9,Fizz+,11,Fizz++,13,FizzBuzz,15,Fizz,17,Fizz+,19,Fizz++", out)
}

func TestTokenizerZeroIterations(t *testing.T) {
	tk, err := NewTokenizer(classicRules(t))
	require.NoError(t, err)

	out, err := tk.ProduceOutput(0, format.Options{})
	require.Error(t, err)
	assert.True(t, IsNonZeroValueError(err))
	assert.Empty(t, out)

	_, err = tk.Trace(0)
	assert.True(t, IsNonZeroValueError(err))
}

func TestTokenizerSilentIterations(t *testing.T) {
	tk, err := NewTokenizer([]Rule{mustFixed(t, "Fizz", 1, 3)})
	require.NoError(t, err)

	out, err := tk.ProduceOutput(10, format.Options{Separator: " "})
	require.NoError(t, err)
	assert.Equal(t, "Fizz Fizz Fizz", out)

	d := tk.Evaluate(4)
	assert.True(t, d.Silent)
	assert.Empty(t, d.Winner)
	assert.Empty(t, d.Matched)
}

func TestTokenizerNoMatchAtAll(t *testing.T) {
	tk, err := NewTokenizer([]Rule{mustFixed(t, "Big", 1, 100)})
	require.NoError(t, err)

	out, err := tk.ProduceOutput(5, format.Options{Separator: "\n"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestTokenizerPriorityNotOrder(t *testing.T) {
	forward := classicRules(t)
	reversed := []Rule{forward[3], forward[2], forward[1], forward[0]}

	a, err := NewTokenizer(forward)
	require.NoError(t, err)
	b, err := NewTokenizer(reversed)
	require.NoError(t, err)

	outA, err := a.ProduceOutput(30, format.Options{Separator: ","})
	require.NoError(t, err)
	outB, err := b.ProduceOutput(30, format.Options{Separator: ","})
	require.NoError(t, err)
	assert.Equal(t, outA, outB)
}

func TestTokenizerTieBreak(t *testing.T) {
	rules := []Rule{
		mustFixed(t, "Even", 1, 2),
		mustFixed(t, "Triple", 1, 3),
		Numeric(),
	}

	last, err := NewTokenizer(rules)
	require.NoError(t, err)
	assert.Equal(t, TieBreakLast, last.TieBreak())
	assert.Equal(t, "Triple", last.Evaluate(6).Token)

	first, err := NewTokenizer(rules, WithTieBreak(TieBreakFirst))
	require.NoError(t, err)
	assert.Equal(t, "Even", first.Evaluate(6).Token)

	// Non-tied iterations are unaffected by the policy.
	assert.Equal(t, last.Evaluate(4), first.Evaluate(4))
}

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakLast, tb)

	tb, err = ParseTieBreak("First")
	require.NoError(t, err)
	assert.Equal(t, TieBreakFirst, tb)
	assert.Equal(t, "first", tb.String())

	_, err = ParseTieBreak("random")
	assert.ErrorContains(t, err, "invalid tie-break")
}

func TestTokenizerEvaluate(t *testing.T) {
	tk, err := NewTokenizer([]Rule{
		Numeric(),
		mustStreak(t, "Fizz", "+", 1, 2, 7).WithName("fizz"),
		mustStreak(t, "Buzz", "+", 1, 7, 2).WithName("buzz"),
		mustFixed(t, "FizzBuzz", 2, 2, 7).WithName("fizzbuzz"),
	})
	require.NoError(t, err)

	got := tk.Evaluate(6)
	want := Decision{
		Iteration: 6,
		Winner:    "fizz",
		Token:     "Fizz++",
		Matched: []Candidate{
			{Rule: "number", Priority: 0, Token: "6"},
			{Rule: "fizz", Priority: 1, Token: "Fizz++", Streak: 3},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Evaluate(6) mismatch (-want +got):\n%s", diff)
	}

	got = tk.Evaluate(14)
	assert.Equal(t, "fizzbuzz", got.Winner)
	assert.Equal(t, "FizzBuzz", got.Token)
	assert.Len(t, got.Matched, 2, "number and fizzbuzz; both streaks are interrupted at 14")
}

func TestTokenizerTrace(t *testing.T) {
	tk, err := NewTokenizer(classicRules(t))
	require.NoError(t, err)

	decisions, err := tk.Trace(6)
	require.NoError(t, err)
	require.Len(t, decisions, 6)

	tokens := make([]string, len(decisions))
	for i, d := range decisions {
		assert.Equal(t, uint32(i+1), d.Iteration)
		tokens[i] = d.Token
	}
	assert.Equal(t, []string{"1", "Fizz", "Buzz", "Fizz", "5", "FizzBuzz"}, tokens)
}

func TestTokenizerIdempotent(t *testing.T) {
	tk, err := NewTokenizer([]Rule{
		Numeric(),
		mustStreak(t, "Fizz", "+", 1, 3, 5),
		mustStreak(t, "Buzz", "+", 1, 5, 3),
		mustFixed(t, "FizzBuzz", 2, 3, 5),
	})
	require.NoError(t, err)

	opts := format.Options{Separator: "\n", Case: ir.CaseUpper}
	first, err := tk.ProduceOutput(500, opts)
	require.NoError(t, err)
	second, err := tk.ProduceOutput(500, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokenizerCopiesRules(t *testing.T) {
	rules := classicRules(t)
	tk, err := NewTokenizer(rules)
	require.NoError(t, err)

	rules[0] = mustFixed(t, "Changed", 5, 2)
	assert.Equal(t, "Fizz", tk.Evaluate(2).Token)
	assert.Len(t, tk.Rules(), 4)
}

func TestTokenizerRejectsInvalidRuleSet(t *testing.T) {
	_, err := NewTokenizer(nil)
	assert.True(t, IsRuleConfigError(err))

	_, err = NewTokenizer([]Rule{mustStreak(t, "Fizz", "+", 1, 2, 2)})
	assert.True(t, IsRuleConfigError(err))
}

func TestTokenizerWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tk, err := NewTokenizer([]Rule{mustFixed(t, "Fizz", 1, 2)}, WithLogger(logger))
	require.NoError(t, err)

	out, err := tk.ProduceOutput(3, format.Options{Separator: ","})
	require.NoError(t, err)
	assert.Equal(t, "Fizz", out)

	logs := buf.String()
	assert.Contains(t, logs, "token emitted")
	assert.Contains(t, logs, "rule=Fizz")
	assert.Contains(t, logs, "silent iteration")
}
