package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Ledger.Driver)
	assert.Equal(t, "leadsync.db", cfg.Ledger.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
	assert.Equal(t, "https://api.debounce.io/v1/", cfg.Debounce.BaseURL)
	assert.Equal(t, "https://api.instantly.ai", cfg.Instantly.BaseURL)
	assert.Equal(t, 30, cfg.Sync.WindowDays)
	assert.Equal(t, "Website Visit", cfg.Sync.SubChannel)
	assert.Len(t, cfg.Sync.Owners, 2)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
ledger:
  driver: postgres
  database_url: postgres://localhost/leadsync
sync:
  window_days: 7
  owners:
    - Jane Doe
campaigns:
  pricing: cam-1
  blogs: cam-2
  compare: cam-3
  home: cam-4
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Ledger.Driver)
	assert.Equal(t, "postgres://localhost/leadsync", cfg.Ledger.DatabaseURL)
	assert.Equal(t, 7, cfg.Sync.WindowDays)
	assert.Equal(t, []string{"Jane Doe"}, cfg.Sync.Owners)
	assert.Equal(t, "cam-1", cfg.Campaigns.Pricing)
	assert.Equal(t, "cam-4", cfg.Campaigns.Home)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply to untouched keys.
	assert.Equal(t, "Website Visit", cfg.Sync.SubChannel)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("LEADSYNC_SYNC_WINDOW_DAYS", "14")
	t.Setenv("LEADSYNC_DEBOUNCE_KEY", "db-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Sync.WindowDays)
	assert.Equal(t, "db-key", cfg.Debounce.Key)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
