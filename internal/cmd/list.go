package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewListCommand creates and returns the list subcommand
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [binary]",
		Short: "List the modules embedded in a binary",
		Long: `Print the main module and every dependency module recorded in a
binary's build info, with versions. With no argument the running
modcheck binary lists itself.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := selfTarget
			if len(args) == 1 {
				target = args[0]
			}
			return runList(target, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	return cmd
}

// runList prints the module table for one target.
func runList(target string, out io.Writer) error {
	report, err := loadTarget(target)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (built with %s)\n", target, report.GoVersion)
	fmt.Fprintf(out, "  main  %s %s\n", report.Main.Path, report.Main.Version)
	for _, dep := range report.Deps {
		fmt.Fprintf(out, "  dep   %s %s\n", dep.Path, dep.Version)
	}
	fmt.Fprintf(out, "%d modules\n", len(report.Deps)+1)

	return nil
}
