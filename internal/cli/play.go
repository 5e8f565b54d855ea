package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/fizzbuzz/internal/preset"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Iterations uint32
	Fizz       uint32
	Buzz       uint32
	Plain      bool
}

// PlayConfig echoes the game configuration.
type PlayConfig struct {
	Iterations uint32 `json:"iterations"`
	Fizz       uint32 `json:"fizz"`
	Buzz       uint32 `json:"buzz"`
}

// String renders the configuration echo printed before the output.
func (c PlayConfig) String() string {
	return fmt.Sprintf("iterations=%d fizz=%d buzz=%d", c.Iterations, c.Fizz, c.Buzz)
}

// PlayResult holds the play command output.
type PlayResult struct {
	Config  PlayConfig `json:"config"`
	RuleSet string     `json:"ruleset"`
	Hash    string     `json:"hash"`
	Output  string     `json:"output"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the traditional streak game",
		Long: `Play FizzBuzz with two rival divisors.

Multiples of f print Fizz, multiples of b print Buzz and multiples of both
print FizzBuzz. A Fizz that repeats without a multiple of b in between
grows a suffix (Fizz, Fizz+, Fizz++), and the same goes for Buzz.

Labels and the suffix can be set in the config file (play.fizz_label,
play.buzz_label, play.fizzbuzz_label, play.suffix).

Examples:
  fizzbuzz play -t 20 -f 2 -b 7
  fizzbuzz play -t 15 -f 3 -b 5 --plain --separator ", "
  fizzbuzz play -t 15 -f 3 -b 5 --case lower --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().Uint32VarP(&opts.Iterations, "iterations", "t", 0, "how many iterations to play (required)")
	cmd.Flags().Uint32VarP(&opts.Fizz, "fizz", "f", 0, "multiples of f print Fizz (required)")
	cmd.Flags().Uint32VarP(&opts.Buzz, "buzz", "b", 0, "multiples of b print Buzz (required)")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "textbook game without streak suffixes")
	cmd.Flags().String("suffix", "", "streak suffix (default \"+\")")
	addOutputFlags(cmd)
	_ = cmd.MarkFlagRequired("iterations")
	_ = cmd.MarkFlagRequired("fizz")
	_ = cmd.MarkFlagRequired("buzz")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	bindOutputFlags(opts.RootOptions, cmd)
	_ = opts.config().BindPFlag(KeySuffix, cmd.Flags().Lookup("suffix"))

	formatter := opts.formatter(cmd)
	formatter.RunID = opts.runID()

	cfg := PlayConfig{Iterations: opts.Iterations, Fizz: opts.Fizz, Buzz: opts.Buzz}
	slog.Debug("play", "run_id", formatter.RunID, "iterations", cfg.Iterations, "fizz", cfg.Fizz, "buzz", cfg.Buzz, "plain", opts.Plain)

	build := preset.Traditional
	if opts.Plain {
		build = preset.Plain
	}
	rs, err := build(opts.Fizz, opts.Buzz, labelsFromConfig(opts.RootOptions))
	if err != nil {
		return formatter.Fail(ExitFailure, "invalid game configuration", err)
	}

	g, err := prepare(opts.RootOptions, formatter, rs)
	if err != nil {
		return err
	}

	output, err := g.play(opts.Iterations)
	if err != nil {
		return formatter.Fail(ExitFailure, "play failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(PlayResult{
			Config:  cfg,
			RuleSet: rs.Name,
			Hash:    g.hash,
			Output:  output,
		})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, cfg)
	fmt.Fprintln(w, output)
	return nil
}

