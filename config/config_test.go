package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
app_keyword: bot
database_path: /tmp/agenthub.db
model:
  provider: anthropic
  name: claude-3-5-sonnet-20241022
scheduler:
  enabled: false
  timezone: Europe/Warsaw
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bot", cfg.AppKeyword)
	assert.Equal(t, "/tmp/agenthub.db", cfg.DatabasePath)
	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeConfig(t, `model: {provider: mock}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "agent", cfg.AppKeyword)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `model: {provider: eliza}`)

	_, err := Load(path)
	assert.ErrorContains(t, err, `unknown model provider "eliza"`)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, `scheduler: {timezone: Mars/Olympus}`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "scheduler timezone")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSchedulerLocationDefault(t *testing.T) {
	loc, err := SchedulerConfig{}.Location()
	require.NoError(t, err)
	assert.NotNil(t, loc)
}

func TestValidateDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
