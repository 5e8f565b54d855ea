package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fizzbuzz/internal/ir"
)

// Version is the CLI release, set at build time with
// -ldflags "-X github.com/roach88/fizzbuzz/internal/cli.Version=v1.2.3".
var Version = "dev"

// VersionInfo holds the version command output.
type VersionInfo struct {
	Version       string `json:"version"`
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print version information",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:       Version,
				EngineVersion: ir.EngineVersion,
				IRVersion:     ir.IRVersion,
			}
			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fizzbuzz %s (engine %s, ir v%s)\n", info.Version, info.EngineVersion, info.IRVersion)
			return nil
		},
	}
}
