package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for modcheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modcheck",
		Short: "Smoke-check the module metadata embedded in Go binaries",
		Long: `Modcheck verifies that compiled Go binaries carry well-formed module
metadata: every checked module must be present in the binary's build info
and must expose a non-empty version identifier.

Run without arguments it checks its own build; given binary paths it
checks their main modules, or specific dependencies via --module.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
