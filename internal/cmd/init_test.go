package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/modcheck/internal/config"
)

func TestRunInitCreatesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".modcheck.yaml")

	var out bytes.Buffer
	require.NoError(t, runInit(configPath, &out))
	assert.Contains(t, out.String(), "Created")

	// The written file must load cleanly
	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.History.Enabled)
}

func TestRunInitRefusesOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".modcheck.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: debug\n"), 0644))

	var out bytes.Buffer
	err := runInit(configPath, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Existing content untouched
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "log_level: debug\n", string(data))
}
