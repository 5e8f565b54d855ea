package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fizzbuzz/internal/engine"
	"github.com/roach88/fizzbuzz/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Name  string `json:"name"`
	Hash  string `json:"hash"`
	Rules int    `json:"rules"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <rules-file>",
		Short: "Validate a rule file without playing it",
		Long: `Compile and validate a CUE, YAML or TOML rule file.

Reports every problem found (zero divisors, empty tokens, rivals that
interrupt every streak, duplicate names) and, for a valid file, the
rule-set hash that identifies it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	rs, err := loadRules(formatter, path)
	if err != nil {
		return err
	}

	rules, err := engine.FromRuleSet(*rs)
	if err == nil {
		err = engine.ValidateRules(rules)
	}
	if err != nil {
		return formatter.Fail(ExitFailure, "invalid rule set", err)
	}

	hash, err := ir.RuleSetHash(*rs)
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to hash rule set", err)
	}

	result := ValidationResult{
		Valid: true,
		Name:  rs.Name,
		Hash:  hash,
		Rules: len(rs.Rules),
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ %s: %d rule(s) valid\n", result.Name, result.Rules)
	fmt.Fprintf(w, "  hash: %s\n", result.Hash)
	return nil
}
