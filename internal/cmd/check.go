package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/modcheck/internal/config"
	"github.com/harrison/modcheck/internal/contract"
	"github.com/harrison/modcheck/internal/display"
	"github.com/harrison/modcheck/internal/history"
	"github.com/harrison/modcheck/internal/logger"
	"github.com/harrison/modcheck/internal/modinfo"
)

// selfTarget labels the running binary in reports and history.
const selfTarget = "self"

// checkOptions carries the resolved flags for one check invocation.
type checkOptions struct {
	modulePaths []string
	strict      bool
	configPath  string
	noHistory   bool
}

// NewCheckCommand creates and returns the check subcommand
func NewCheckCommand() *cobra.Command {
	opts := checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [binary...]",
		Short: "Check module metadata in one or more binaries",
		Long: `Load the build info embedded in each binary and verify the module
contract: the module must be importable (present in the build info) and
must expose a non-empty version identifier.

With no arguments the running modcheck binary checks itself. By default
the main module of each binary is checked; --module selects dependency
modules instead (repeatable), and modules listed under "require" in the
config are always checked.

Exit code: 0 if every check passed, 1 otherwise`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(context.Background(), args, opts, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringSliceVar(&opts.modulePaths, "module", nil,
		"module path to check instead of the main module (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false,
		"reject the (devel) placeholder version")
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath,
		"path to the modcheck config file")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false,
		"do not record results to the history database")

	return cmd
}

// runCheck loads each target, applies the contract suite, renders results,
// and records them to history. It returns an error iff any check failed, so
// the CLI exits non-zero on contract violations.
func runCheck(ctx context.Context, targets []string, opts checkOptions, out io.Writer) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	renderer := display.NewRenderer(out)

	strict := opts.strict || cfg.Strict
	var contractOpts []contract.Option
	if strict {
		contractOpts = append(contractOpts, contract.WithStrict())
	}

	store := openHistory(cfg, opts.noHistory, log)
	if store != nil {
		defer store.Close()
	}
	runID := history.NewRunID()

	passed, failed := 0, 0
	for _, target := range targetsOrSelf(targets) {
		results := checkTarget(target, opts.modulePaths, cfg.Require, contractOpts, log)

		renderer.Target(target)
		renderer.Results(results)

		for _, res := range results {
			if res.Passed() {
				passed++
			} else {
				failed++
			}
		}

		if store != nil {
			if err := store.RecordResults(ctx, runID, target, results); err != nil {
				log.Warnf("failed to record results for %s: %v", target, err)
			}
		}
	}

	if store != nil && cfg.History.KeepDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.History.KeepDays)
		if pruned, err := store.PruneBefore(ctx, cutoff); err != nil {
			log.Warnf("failed to prune history: %v", err)
		} else if pruned > 0 {
			log.Debugf("pruned %d history rows older than %d days", pruned, cfg.History.KeepDays)
		}
	}

	renderer.Summary(passed, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, passed+failed)
	}
	return nil
}

// targetsOrSelf defaults an empty target list to the running binary.
func targetsOrSelf(targets []string) []string {
	if len(targets) == 0 {
		return []string{selfTarget}
	}
	return targets
}

// checkTarget loads one target's build info and runs the contract suite over
// the selected modules. A target that cannot be loaded yields failing results
// for a nil module reference, the same shape a broken import produces.
func checkTarget(target string, modulePaths, required []string, opts []contract.Option, log *logger.ConsoleLogger) []contract.Result {
	report, err := loadTarget(target)
	if err != nil {
		log.Errorf("failed to load %s: %v", target, err)
		return contract.Run(nil, opts...)
	}
	log.Debugf("loaded %s: main module %s, %d dependencies (built with %s)",
		target, report.Main.Path, len(report.Deps), report.GoVersion)

	selected := selectModules(modulePaths, required)
	if len(selected) == 0 {
		return contract.Run(&report.Main, opts...)
	}

	var results []contract.Result
	for _, path := range selected {
		mod, found := report.Find(path)
		if !found {
			mod = nil
		}
		modResults := contract.Run(mod, opts...)
		if !found {
			// Label results with the requested path so the report and
			// history stay addressable even though the reference is nil.
			for i := range modResults {
				modResults[i].Module = path
			}
		}
		results = append(results, modResults...)
	}
	return results
}

// loadTarget reads build info for a binary path, or for the running binary
// when the target is the self sentinel.
func loadTarget(target string) (*modinfo.Report, error) {
	if target == selfTarget {
		return modinfo.LoadSelf()
	}
	return modinfo.Load(target)
}

// selectModules merges --module flags with the config's required modules,
// dropping duplicates while preserving order.
func selectModules(modulePaths, required []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, path := range append(append([]string{}, modulePaths...), required...) {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

// openHistory opens the history store when recording is enabled. Failures
// degrade to a warning: a broken ledger must not block checks.
func openHistory(cfg *config.Config, noHistory bool, log *logger.ConsoleLogger) *history.Store {
	if noHistory || !cfg.History.Enabled {
		return nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		log.Warnf("history disabled: %v", err)
		return nil
	}
	return store
}
