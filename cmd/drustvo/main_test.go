package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	a, err := generatePassword(16)
	require.NoError(t, err)
	b, err := generatePassword(16)
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drustvo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"database:",
		"  path: from-file.sqlite3",
		"logger:",
		"  level: warn",
	}, "\n")), 0o644))

	configPath, dbPath, logPath = path, filepath.Join(dir, "flag.sqlite3"), ""
	t.Cleanup(func() { configPath, dbPath, logPath = "", "", "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag.sqlite3"), cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Logger.Level)
}
