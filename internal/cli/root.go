package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/fizzbuzz/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config holds file, environment and flag settings. Commands built
	// without the root command get an empty instance on first use.
	Config *viper.Viper

	// RunIDs tags each run for log correlation (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fizzbuzz CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Config: viper.New()})
}

// newRootCommand builds the command tree around opts, which tests use to
// inject run ids and settings.
func newRootCommand(opts *RootOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "fizzbuzz",
		Short: "fizzbuzz - a rule engine for the FizzBuzz game",
		Long: `A generalized FizzBuzz engine.

Each number is mapped to a token by a prioritized set of rules: fixed
tokens, streak tokens that grow while no rival divisor interrupts them,
and a numeric fallback.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := initConfig(opts); err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			if err := setupLogging(opts, cmd.ErrOrStderr()); err != nil {
				return WrapExitError(ExitCommandError, "failed to setup logging", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: $HOME/.config/fizzbuzz/config.yaml)")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = opts.config().BindPFlag(KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = opts.config().BindPFlag(KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// config returns the settings store, creating an empty one if needed.
func (o *RootOptions) config() *viper.Viper {
	if o.Config == nil {
		o.Config = viper.New()
	}
	return o.Config
}

// runID generates the id for a new run.
func (o *RootOptions) runID() string {
	if o.RunIDs == nil {
		o.RunIDs = engine.UUIDv7Generator{}
	}
	return o.RunIDs.Generate()
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
