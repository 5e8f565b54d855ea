package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/fizzbuzz/internal/format"
	"github.com/roach88/fizzbuzz/internal/ir"
	"github.com/roach88/fizzbuzz/internal/preset"
)

// Configuration keys. Each can be set in the config file, through a
// FIZZBUZZ_ environment variable (dots become underscores) or, where a
// command has the matching flag, on the command line.
const (
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"

	KeySeparator = "output.separator"
	KeyCase      = "output.case"
	KeyTieBreak  = "output.tie_break"

	KeyFizzLabel     = "play.fizz_label"
	KeyBuzzLabel     = "play.buzz_label"
	KeyFizzBuzzLabel = "play.fizzbuzz_label"
	KeySuffix        = "play.suffix"
)

// EnvPrefix is the prefix for configuration environment variables.
const EnvPrefix = "FIZZBUZZ"

// initConfig loads the config file and environment into opts.Config.
// A missing default config file is not an error; a missing explicit one is.
func initConfig(opts *RootOptions) error {
	v := opts.config()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fizzbuzz"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return nil
}

// setupLogging installs the default slog logger. --verbose forces debug
// level regardless of the configured level.
func setupLogging(opts *RootOptions, w io.Writer) error {
	v := opts.config()
	level := v.GetString(KeyLogLevel)
	if level == "" {
		level = "warn"
	}
	logFormat := v.GetString(KeyLogFormat)
	if logFormat == "" {
		logFormat = "text"
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
	if opts.Verbose {
		slogLevel = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch logFormat {
	case "text", "console":
		handler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return fmt.Errorf("invalid log format: %s", logFormat)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

// addOutputFlags registers the formatting flags shared by play, run and
// trace.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("separator", "", "token separator (default: the rule set's, newline for play)")
	cmd.Flags().String("case", "", "token case (none|lower|upper|title)")
	cmd.Flags().String("tie-break", "", "rule chosen among equal priorities (first|last, default last)")
}

// bindOutputFlags binds the formatting flags of the running command. Flags
// share keys across commands, so binding happens at run time rather than
// construction time.
func bindOutputFlags(opts *RootOptions, cmd *cobra.Command) {
	v := opts.config()
	_ = v.BindPFlag(KeySeparator, cmd.Flags().Lookup("separator"))
	_ = v.BindPFlag(KeyCase, cmd.Flags().Lookup("case"))
	_ = v.BindPFlag(KeyTieBreak, cmd.Flags().Lookup("tie-break"))
}

// resolveFormat layers flag and config settings over the rule set's own
// formatting: an explicitly set value wins, otherwise the rule set decides.
func resolveFormat(opts *RootOptions, base ir.FormatOptions) (format.Options, error) {
	v := opts.config()
	out := format.FromIR(base)

	if v.IsSet(KeySeparator) {
		out.Separator = unescapeSeparator(v.GetString(KeySeparator))
	}
	if v.IsSet(KeyCase) {
		c, err := format.ParseCase(v.GetString(KeyCase))
		if err != nil {
			return out, err
		}
		out.Case = c
	}
	return out, nil
}

// unescapeSeparator turns the escapes a shell user is likely to type into
// the characters they mean.
func unescapeSeparator(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}

// labelsFromConfig reads preset labels. Unset labels fall back to the
// preset defaults.
func labelsFromConfig(opts *RootOptions) preset.Labels {
	v := opts.config()
	return preset.Labels{
		Fizz:     v.GetString(KeyFizzLabel),
		Buzz:     v.GetString(KeyBuzzLabel),
		FizzBuzz: v.GetString(KeyFizzBuzzLabel),
		Suffix:   v.GetString(KeySuffix),
	}
}
