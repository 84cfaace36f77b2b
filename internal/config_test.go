package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tinyrel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "tinyrel", cfg.AppName)
	require.Equal(t, "disk", cfg.Storage.Mode)
	require.Equal(t, "./data", cfg.Storage.Workdir)
	require.Equal(t, "hash", cfg.Storage.IndexKind)
	require.Equal(t, 256, cfg.Storage.RowCache)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "disk:./data", cfg.URL())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
app_name: school
storage:
  mode: mem
  name: scratch
  index_kind: btree
log:
  level: debug
  format: json
  seq_url: http://localhost:5341
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "school", cfg.AppName)
	require.Equal(t, "btree", cfg.Storage.IndexKind)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "http://localhost:5341", cfg.Log.SeqURL)
	require.Equal(t, "mem:scratch", cfg.URL())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "storage:\n  mode: mem\n")
	t.Setenv("TINYREL_STORAGE_MODE", "disk")
	t.Setenv("TINYREL_STORAGE_WORKDIR", "/tmp/x")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "disk", cfg.Storage.Mode)
	require.Equal(t, "disk:/tmp/x", cfg.URL())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "storage:\n  mode: cloud\n"))
	require.Error(t, err)
}
