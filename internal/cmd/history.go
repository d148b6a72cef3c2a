package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/modcheck/internal/config"
	"github.com/harrison/modcheck/internal/display"
	"github.com/harrison/modcheck/internal/history"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	var (
		limit      int
		failedOnly bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent check results",
		Long: `Print recent check results from the history database, newest first.
Results are recorded by "modcheck check" unless history is disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(context.Background(), configPath, limit, failedOnly, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results to show")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "show only failed checks")
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"path to the modcheck config file")

	return cmd
}

// runHistory prints recent recorded results.
func runHistory(ctx context.Context, configPath string, limit int, failedOnly bool, out io.Writer) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if !cfg.History.Enabled {
		warning := display.Warning{
			Title:      "history is disabled",
			Message:    "check results are not being recorded",
			Suggestion: "set history.enabled: true in " + config.DefaultPath,
		}
		warning.Display(out)
		return nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, limit, failedOnly)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded check results")
		return nil
	}

	for _, run := range runs {
		status := "PASS"
		if !run.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s  %s  %-12s %s %s",
			run.Timestamp.Format("2006-01-02 15:04:05"), status, run.Check, run.Binary, run.ModulePath)
		if run.Passed {
			fmt.Fprintf(out, " %s\n", run.Version)
		} else {
			fmt.Fprintf(out, ": %s\n", run.Reason)
		}
	}
	fmt.Fprintf(out, "%d results\n", len(runs))

	return nil
}
