package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Iterations uint32
}

// RunResult holds the run command output.
type RunResult struct {
	RuleSet    string `json:"ruleset"`
	Hash       string `json:"hash"`
	Iterations uint32 `json:"iterations"`
	Output     string `json:"output"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <rules-file>",
		Short: "Play a rule file",
		Long: `Play the rules defined in a CUE, YAML or TOML file.

The file's format section sets the default separator and case; the
--separator and --case flags override it.

Examples:
  fizzbuzz run ./rules/classic.yaml -t 15
  fizzbuzz run ./rules/streak.cue -t 30 --separator ", "
  fizzbuzz run ./rules/tie.toml -t 12 --tie-break first --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().Uint32VarP(&opts.Iterations, "iterations", "t", 0, "how many iterations to play (required)")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("iterations")

	return cmd
}

func runRun(opts *RunOptions, path string, cmd *cobra.Command) error {
	bindOutputFlags(opts.RootOptions, cmd)

	formatter := opts.formatter(cmd)
	formatter.RunID = opts.runID()
	slog.Debug("run", "run_id", formatter.RunID, "rules", path, "iterations", opts.Iterations)

	rs, err := loadRules(formatter, path)
	if err != nil {
		return err
	}

	g, err := prepare(opts.RootOptions, formatter, *rs)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Playing %s", g.describe())

	output, err := g.play(opts.Iterations)
	if err != nil {
		return formatter.Fail(ExitFailure, "run failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(RunResult{
			RuleSet:    rs.Name,
			Hash:       g.hash,
			Iterations: opts.Iterations,
			Output:     output,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
