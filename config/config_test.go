package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/labor-engine/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "labor.db", cfg.DBPath)
	assert.Equal(t, "weekly", cfg.DefaultPreset)
	assert.False(t, cfg.Development)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
port: 9090
db_path: /tmp/labor-test.db
default_preset: monthly
development: true
allowed_origins:
  - https://app.example.com
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/labor-test.db", cfg.DBPath)
	assert.Equal(t, "monthly", cfg.DefaultPreset)
	assert.True(t, cfg.Development)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := writeConfig(t, "port: 3000\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "labor.db", cfg.DBPath, "unset keys fall back to defaults")
	assert.Equal(t, "weekly", cfg.DefaultPreset)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"port out of range", "port: 99999\n"},
		{"unknown preset", "default_preset: fortnightly\n"},
		{"empty db path", "db_path: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "port: [not a number\n"))
	assert.Error(t, err)
}
