package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/fizzbuzz/internal/engine"
	"github.com/roach88/fizzbuzz/internal/ir"
	"github.com/roach88/fizzbuzz/internal/preset"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Iterations uint32
	Fizz       uint32
	Buzz       uint32
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	RuleSet   string            `json:"ruleset"`
	Hash      string            `json:"hash"`
	TieBreak  string            `json:"tie_break"`
	Decisions []engine.Decision `json:"decisions"`
	Stats     TraceStats        `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Iterations uint32         `json:"iterations"`
	Silent     int            `json:"silent"`
	Wins       map[string]int `json:"wins"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [rules-file]",
		Short: "Show how each iteration was decided",
		Long: `Print one row per iteration: the winning rule, its formatted token
and every rule whose condition held, with priorities and streak counts.

Trace a rule file, or the traditional game with --fizz and --buzz.

Examples:
  fizzbuzz trace -t 20 -f 2 -b 7
  fizzbuzz trace ./rules/tie.toml -t 12 --tie-break first
  fizzbuzz trace ./rules/streak.cue -t 15 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args, cmd)
		},
	}

	cmd.Flags().Uint32VarP(&opts.Iterations, "iterations", "t", 0, "how many iterations to trace (required)")
	cmd.Flags().Uint32VarP(&opts.Fizz, "fizz", "f", 0, "traditional game: multiples of f print Fizz")
	cmd.Flags().Uint32VarP(&opts.Buzz, "buzz", "b", 0, "traditional game: multiples of b print Buzz")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("iterations")
	cmd.MarkFlagsRequiredTogether("fizz", "buzz")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	bindOutputFlags(opts.RootOptions, cmd)

	formatter := opts.formatter(cmd)
	formatter.RunID = opts.runID()

	usePreset := cmd.Flags().Changed("fizz")
	if usePreset == (len(args) == 1) {
		return NewExitError(ExitCommandError, "trace needs either a rules file or --fizz and --buzz")
	}

	var rs ir.RuleSet
	if usePreset {
		built, err := preset.Traditional(opts.Fizz, opts.Buzz, labelsFromConfig(opts.RootOptions))
		if err != nil {
			return formatter.Fail(ExitFailure, "invalid game configuration", err)
		}
		rs = built
	} else {
		loaded, err := loadRules(formatter, args[0])
		if err != nil {
			return err
		}
		rs = *loaded
	}

	g, err := prepare(opts.RootOptions, formatter, rs)
	if err != nil {
		return err
	}
	slog.Debug("trace", "run_id", formatter.RunID, "ruleset", rs.Name, "iterations", opts.Iterations)

	decisions, err := g.tokenizer.Trace(opts.Iterations)
	if err != nil {
		return formatter.Fail(ExitFailure, "trace failed", err)
	}

	result := TraceResult{
		RuleSet:   rs.Name,
		Hash:      g.hash,
		TieBreak:  g.tokenizer.TieBreak().String(),
		Decisions: decisions,
		Stats:     TraceStats{Iterations: opts.Iterations, Wins: map[string]int{}},
	}
	for i := range result.Decisions {
		d := &result.Decisions[i]
		if d.Silent {
			result.Stats.Silent++
			continue
		}
		d.Token = g.format.Apply(d.Token, d.Iteration, opts.Iterations)
		result.Stats.Wins[d.Winner]++
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputTraceText(cmd, result)
}

// outputTraceText prints the decision table followed by a summary.
func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Trace: %s (%s, tie-break %s)\n\n", result.RuleSet, shortHash(result.Hash), result.TieBreak)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITER\tWINNER\tTOKEN\tMATCHED")
	for _, d := range result.Decisions {
		winner, token := d.Winner, d.Token
		if d.Silent {
			winner, token = "-", "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.Iteration, winner, token, matchedSummary(d.Matched))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d iteration(s), %d silent\n", result.Stats.Iterations, result.Stats.Silent)
	return nil
}

// matchedSummary renders candidates as name(priority), with the streak
// count for streak rules.
func matchedSummary(matched []engine.Candidate) string {
	if len(matched) == 0 {
		return "-"
	}
	parts := make([]string, len(matched))
	for i, c := range matched {
		if c.Streak > 0 {
			parts[i] = fmt.Sprintf("%s(%d, streak %d)", c.Rule, c.Priority, c.Streak)
			continue
		}
		parts[i] = fmt.Sprintf("%s(%d)", c.Rule, c.Priority)
	}
	return strings.Join(parts, " ")
}
