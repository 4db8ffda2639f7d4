package openpanel

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

	path := filepath.Join(t.TempDir(), "openpanel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
track_url: "http://localhost:3333/track"
export_url: "http://localhost:3333/export"
client_id: "cid"
client_secret: "secret"
project_id: "proj"
timeout_seconds: 3
disabled: true
global_properties:
  app: billing
  version: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3333/track", cfg.TrackURL)
	assert.Equal(t, "http://localhost:3333/export", cfg.ExportURL)
	assert.Equal(t, "cid", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, "proj", cfg.ProjectID)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.True(t, cfg.Disabled)
	assert.Equal(t, map[string]any{"app": "billing", "version": 2}, cfg.GlobalProperties)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfig(t, "client_id: cid\n"))
	require.NoError(t, err)

	assert.Equal(t, defaultTrackURL, cfg.TrackURL)
	assert.Equal(t, defaultExportURL, cfg.ExportURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.False(t, cfg.Disabled)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "client_id: [unterminated"))
	assert.Error(t, err)
}

func TestConfig_Timeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10*time.Second, Config{}.Timeout())
	assert.Equal(t, 10*time.Second, Config{TimeoutSeconds: -5}.Timeout())
	assert.Equal(t, 30*time.Second, Config{TimeoutSeconds: 30}.Timeout())
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, defaultTrackURL, cfg.TrackURL)
	assert.Equal(t, defaultExportURL, cfg.ExportURL)
	assert.Equal(t, defaultTimeoutSeconds, cfg.TimeoutSeconds)
}

// The env tests below use t.Setenv and therefore cannot run in parallel.

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvTrackURL, "http://env.local/track")
	t.Setenv(EnvExportURL, "http://env.local/export")
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")
	t.Setenv(EnvProjectID, "env-proj")
	t.Setenv(EnvDisabled, "true")
	t.Setenv(EnvTimeoutSeconds, "7")

	cfg, err := LoadConfigFromEnv("")
	require.NoError(t, err)

	assert.Equal(t, "http://env.local/track", cfg.TrackURL)
	assert.Equal(t, "http://env.local/export", cfg.ExportURL)
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "env-proj", cfg.ProjectID)
	assert.True(t, cfg.Disabled)
	assert.Equal(t, 7*time.Second, cfg.Timeout())
}

func TestLoadConfigFromEnv_OverridesFile(t *testing.T) {
	path := writeConfig(t, `
client_id: "file-id"
client_secret: "file-secret"
project_id: "file-proj"
`)
	t.Setenv(EnvClientSecret, "env-secret")

	cfg, err := LoadConfigFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "file-proj", cfg.ProjectID)
	assert.Equal(t, defaultTrackURL, cfg.TrackURL)
}

func TestLoadConfigFromEnv_InvalidValues(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv(EnvDisabled, "maybe")
		_, err := LoadConfigFromEnv("")
		assert.ErrorContains(t, err, EnvDisabled)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Setenv(EnvTimeoutSeconds, "0")
		_, err := LoadConfigFromEnv("")
		assert.ErrorContains(t, err, EnvTimeoutSeconds)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
