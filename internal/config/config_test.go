package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drustvo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("DRUSTVO_TEST_A", "va")
	out := resolveEnv([]byte("a: ${DRUSTVO_TEST_A:da}\nb: ${DRUSTVO_TEST_B:db}\nc: ${DRUSTVO_TEST_C}"))
	assert.Equal(t, "a: va\nb: db\nc: ", string(out))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Scoring.TrustClientTotal)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("DRUSTVO_TEST_DB", "/var/lib/drustvo/db.sqlite3")
	path := writeConfig(t, `
server:
  addr: ${DRUSTVO_TEST_ADDR:127.0.0.1:9000}
  write_timeout: 1m
database:
  path: ${DRUSTVO_TEST_DB}
auth:
  token_ttl: 12h
logger:
  level: debug
  format: json
scoring:
  trust_client_total: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/var/lib/drustvo/db.sqlite3", cfg.Database.Path)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Scoring.TrustClientTotal)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"log level":    "logger:\n  level: loud\n",
		"empty db":     "database:\n  path: \"\"\n",
		"metrics path": "metrics:\n  enabled: true\n  path: metrics\n",
		"zero ttl":     "auth:\n  token_ttl: 0s\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
