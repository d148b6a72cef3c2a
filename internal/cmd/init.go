package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/modcheck/internal/config"
	"github.com/harrison/modcheck/internal/filelock"
)

// NewInitCommand creates and returns the init subcommand
func NewInitCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a commented starter config to .modcheck.yaml in the working
directory. Refuses to overwrite an existing file. The write is atomic
and lock-guarded so concurrent invocations cannot corrupt the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(configPath, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"path to write the config file to")

	return cmd
}

// runInit writes the starter config, refusing to clobber an existing file.
func runInit(configPath string, out io.Writer) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check %s: %w", configPath, err)
	}

	if err := filelock.LockAndWrite(configPath, config.StarterYAML()); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	fmt.Fprintf(out, "Created %s\n", configPath)
	return nil
}
