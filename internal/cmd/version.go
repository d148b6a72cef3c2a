package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/modcheck/internal/modinfo"
)

// NewVersionCommand creates and returns the version subcommand
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the modcheck version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "modcheck %s\n", Version)

			// Build info is best effort: absent in unusual builds
			if report, err := modinfo.LoadSelf(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "module %s %s (built with %s)\n",
					report.Main.Path, report.Main.Version, report.GoVersion)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
