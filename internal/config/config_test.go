package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "compounds.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:8701", cfg.Addr)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	// Point at a config file that does not exist; defaults apply.
	t.Setenv("DILUTE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "compounds.db", cfg.DBPath)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /data/lab.db\naddr: \":9000\"\n"), 0o644))
	t.Setenv("DILUTE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/lab.db", cfg.DBPath)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /data/lab.db\n"), 0o644))
	t.Setenv("DILUTE_CONFIG", path)
	t.Setenv("DILUTE_DB", "/tmp/override.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.DBPath)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [broken\n"), 0o644))
	t.Setenv("DILUTE_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
