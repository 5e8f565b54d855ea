package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/fizzbuzz/internal/compiler"
	"github.com/roach88/fizzbuzz/internal/engine"
	"github.com/roach88/fizzbuzz/internal/format"
	"github.com/roach88/fizzbuzz/internal/ir"
)

// game is a rule set ready to play, with formatting resolved.
type game struct {
	ruleSet   ir.RuleSet
	hash      string
	tokenizer *engine.Tokenizer
	format    format.Options
}

// gameSettings parses the flag and config values shared by play, run and
// trace. Errors are usage errors.
func gameSettings(opts *RootOptions, base ir.FormatOptions) (engine.TieBreak, format.Options, error) {
	tb, err := engine.ParseTieBreak(opts.config().GetString(KeyTieBreak))
	if err != nil {
		return tb, format.Options{}, err
	}
	fo, err := resolveFormat(opts, base)
	return tb, fo, err
}

// newGame builds the engine for rs. Errors are engine errors.
func newGame(rs ir.RuleSet, tb engine.TieBreak, fo format.Options, logger *slog.Logger) (*game, error) {
	hash, err := ir.RuleSetHash(rs)
	if err != nil {
		return nil, err
	}

	rules, err := engine.FromRuleSet(rs)
	if err != nil {
		return nil, err
	}
	tk, err := engine.NewTokenizer(rules, engine.WithTieBreak(tb), engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &game{ruleSet: rs, hash: hash, tokenizer: tk, format: fo}, nil
}

// prepare resolves settings and builds the game, reporting failures through
// f with the matching exit code.
func prepare(opts *RootOptions, f *OutputFormatter, rs ir.RuleSet) (*game, error) {
	tb, fo, err := gameSettings(opts, rs.Format)
	if err != nil {
		if outErr := f.Error(ErrCodeInvalidFlag, err.Error(), nil); outErr != nil {
			return nil, outErr
		}
		return nil, WrapExitError(ExitCommandError, "invalid flags", err)
	}

	g, err := newGame(rs, tb, fo, slog.Default().With("run_id", f.RunID))
	if err != nil {
		return nil, f.Fail(ExitFailure, "invalid rule set", err)
	}

	slog.Debug("rule set ready",
		"run_id", f.RunID,
		"ruleset", rs.Name,
		"hash", g.hash,
		"rules", len(rs.Rules),
		"tie_break", tb.String())
	return g, nil
}

// play produces the output for n iterations.
func (g *game) play(n uint32) (string, error) {
	return g.tokenizer.ProduceOutput(n, g.format)
}

// shortHash abbreviates a rule-set hash for text output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

// describe returns a one-line summary of the game's rule set.
func (g *game) describe() string {
	return fmt.Sprintf("%s (%d rules, %s)", g.ruleSet.Name, len(g.ruleSet.Rules), shortHash(g.hash))
}

// loadRules reads and validates a rule file. Missing files and unsupported
// extensions are command errors; parse and validation failures are run
// failures.
func loadRules(f *OutputFormatter, path string) (*ir.RuleSet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(compiler.SupportedExtensions, ext) {
		msg := fmt.Sprintf("unsupported rule file %q: want one of %s", path, strings.Join(compiler.SupportedExtensions, ", "))
		if err := f.Error(ErrCodeInvalidFlag, msg, nil); err != nil {
			return nil, err
		}
		return nil, NewExitError(ExitCommandError, msg)
	}

	rs, err := compiler.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("rule file not found: %s", path)
			if outErr := f.Error(ErrCodeNotFound, msg, nil); outErr != nil {
				return nil, outErr
			}
			return nil, WrapExitError(ExitCommandError, msg, err)
		}
		if outErr := f.Error(ErrCodeCompile, err.Error(), nil); outErr != nil {
			return nil, outErr
		}
		return nil, WrapExitError(ExitFailure, "failed to compile rules", err)
	}
	f.VerboseLog("Loaded %d rule(s) from %s", len(rs.Rules), path)

	if errs := compiler.Validate(*rs); len(errs) > 0 {
		return nil, validationFailure(f, errs)
	}
	return rs, nil
}

// validationFailure reports validation errors and returns the exit error.
func validationFailure(f *OutputFormatter, errs []compiler.ValidationError) error {
	msg := fmt.Sprintf("%d validation error(s)", len(errs))
	if f.Format == "json" {
		if err := f.Error(ErrCodeValidation, msg, errs); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "✗ Validation failed: %s\n", msg)
		for _, e := range errs {
			fmt.Fprintf(f.Writer, "  %s\n", e.Error())
		}
	}
	return NewExitError(ExitFailure, msg)
}
