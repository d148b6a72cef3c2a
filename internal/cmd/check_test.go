package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modcheck/internal/history"
)

// testOptions returns check options that keep all side effects in tmpDir.
func testOptions(t *testing.T) checkOptions {
	t.Helper()
	return checkOptions{
		configPath: filepath.Join(t.TempDir(), ".modcheck.yaml"),
		noHistory:  true,
	}
}

// TestRunCheckSelfDependency checks a dependency module of the running test
// binary, which always carries a resolved version.
func TestRunCheckSelfDependency(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t)
	opts.modulePaths = []string{"github.com/spf13/cobra"}

	err := runCheck(context.Background(), nil, opts, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Checking self")
	assert.Contains(t, out.String(), "github.com/spf13/cobra")
	assert.Contains(t, out.String(), "PASS")
	assert.NotContains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "2 checks passed")
}

// TestRunCheckMissingModule verifies a module absent from the build info
// fails both checks and the output names the requested path.
func TestRunCheckMissingModule(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t)
	opts.modulePaths = []string{"github.com/absent/module"}

	err := runCheck(context.Background(), nil, opts, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checks failed")

	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "github.com/absent/module")
}

// TestRunCheckUnloadableBinary verifies a target that cannot be loaded fails
// the import check rather than aborting the run.
func TestRunCheckUnloadableBinary(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t)

	missing := filepath.Join(t.TempDir(), "no-such-binary")
	err := runCheck(context.Background(), []string{missing}, opts, &out)
	require.Error(t, err)

	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "importable")
}

// TestRunCheckRequiredModulesFromConfig verifies config-driven required
// modules are checked without --module flags.
func TestRunCheckRequiredModulesFromConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".modcheck.yaml")
	configContent := `require:
  - github.com/spf13/cobra
history:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	var out bytes.Buffer
	opts := checkOptions{configPath: configPath}

	err := runCheck(context.Background(), nil, opts, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "github.com/spf13/cobra")
}

// TestRunCheckRecordsHistory verifies results land in the configured ledger.
func TestRunCheckRecordsHistory(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".modcheck.yaml")
	dbPath := filepath.Join(tmpDir, "history.db")
	configContent := `history:
  enabled: true
  db_path: ` + dbPath + `
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	var out bytes.Buffer
	opts := checkOptions{
		configPath:  configPath,
		modulePaths: []string{"github.com/spf13/cobra"},
	}

	err := runCheck(context.Background(), nil, opts, &out)
	require.NoError(t, err)

	store, err := history.NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.RecentRuns(context.Background(), 10, false)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "self", runs[0].Binary)
	assert.Equal(t, runs[0].RunID, runs[1].RunID)
}

// TestSelectModules verifies flag and config module lists merge without
// duplicates and in order.
func TestSelectModules(t *testing.T) {
	got := selectModules(
		[]string{"a", "b", ""},
		[]string{"b", "c"},
	)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	assert.Nil(t, selectModules(nil, nil))
}
