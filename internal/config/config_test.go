package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendJSON, cfg.Presets.Backend)
	assert.Equal(t, 100, cfg.Activity.Capacity)
	assert.Equal(t, "stderr", cfg.Log.Output)
}

func TestLoadFromBytes_OverridesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
presets:
  backend: sqlite
  path: /tmp/presets.db
history:
  limit: 50
`))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Presets.Backend)
	assert.Equal(t, "/tmp/presets.db", cfg.Presets.Path)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, 95, cfg.Export.JPEGQuality, "unset fields keep their defaults")
}

func TestLoadFromBytes_EnvExpansion(t *testing.T) {
	t.Setenv("PV_TEST_DIR", "/data")

	cfg, err := LoadFromBytes([]byte(`
presets:
  path: ${PV_TEST_DIR}/presets.json
export:
  jpeg_quality: ${PV_TEST_QUALITY:-80}
`))
	require.NoError(t, err)
	assert.Equal(t, "/data/presets.json", cfg.Presets.Path)
	assert.Equal(t, 80, cfg.Export.JPEGQuality)
}

func TestLoadFromBytes_LogLevelOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadFromBytes([]byte("log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "log: [",
		"backend":       "presets:\n  backend: redis\n",
		"format":        "log:\n  format: xml\n",
		"capacity":      "activity:\n  capacity: 0\n",
		"history limit": "history:\n  limit: -1\n",
		"quality":       "export:\n  jpeg_quality: 101\n",
		"empty path":    "presets:\n  path: \"\"\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activity:\n  capacity: 10\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Activity.Capacity)

	t.Setenv(EnvConfigPath, path)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Activity.Capacity)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Presets, cfg.Presets)

	_, err = Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
