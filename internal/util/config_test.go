package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HUMANOS_HOME", t.TempDir())
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "pro", cfg.Tier)
	assert.Equal(t, "gemini-3-pro-preview", cfg.ProModel)
	assert.Equal(t, "gemini-3-flash-preview", cfg.FlashModel)
	assert.Equal(t, 32768, cfg.ThinkingBudget)
	assert.Equal(t, BackendSQLite, cfg.HistoryBackend)
	assert.Equal(t, filepath.Join(HomeDir(), "humanos.db"), cfg.SQLitePath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HUMANOS_HOME", t.TempDir())
	t.Setenv("HUMANOS_TIER", "FLASH")
	t.Setenv("HUMANOS_HISTORY_BACKEND", "memory")
	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "flash", cfg.Tier)
	assert.Equal(t, BackendMemory, cfg.HistoryBackend)
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HUMANOS_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("tier: flash\nkey_select_command: pass show gemini\n"), 0o600))
	cfg, err := Load(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "flash", cfg.Tier)
	assert.Equal(t, "pass show gemini", cfg.KeySelectCommand)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HUMANOS_HOME", t.TempDir())
	t.Setenv("HUMANOS_TIER", "ultra")
	t.Setenv("HUMANOS_HISTORY_BACKEND", "postgres")
	t.Setenv("HUMANOS_DSN", "")
	t.Setenv("DATABASE_URL", "")
	_, err := Load(NewViper())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier must be pro or flash")
	assert.Contains(t, err.Error(), "dsn (or DATABASE_URL) is required")
}
