package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/config"
	"github.com/lucaspouchot/call-of-cthulhu-character-sheet-sub000/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Log.FilePath)
	assert.Equal(t, config.StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Storage.DraftTTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "local", cfg.PlayerID)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"COC_SHEET_LOG_LEVEL":           "DEBUG",
		"COC_SHEET_LOG_FORMAT":          "json",
		"COC_SHEET_STORAGE_BACKEND":     "sqlite",
		"COC_SHEET_STORAGE_SQLITE_PATH": "/tmp/sheets.db",
		"COC_SHEET_STORAGE_DRAFT_TTL":   "2h",
		"COC_SHEET_PLAYER_ID":           "keeper",
		"COC_SHEET_LOCALE":              "fr",
	})
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, config.StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/sheets.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.Storage.DraftTTL)
	assert.Equal(t, "keeper", cfg.PlayerID)
	assert.Equal(t, "fr", cfg.Locale)
}

func TestLoadFromProcessEnvironment(t *testing.T) {
	t.Setenv("COC_SHEET_PLAYER_ID", "from-env")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.PlayerID)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := config.LoadFrom(map[string]string{"COC_SHEET_STORAGE_DRAFT_TTL": "soon"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = config.LoadFrom(map[string]string{
		"COC_SHEET_LOG_FORMAT":      "xml",
		"COC_SHEET_STORAGE_BACKEND": "postgres",
		"COC_SHEET_PLAYER_ID":       " ",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	fields := errors.FieldErrors(err)
	assert.Contains(t, fields, "Log.Format")
	assert.Contains(t, fields, "Storage.Backend")
	assert.Contains(t, fields, "PlayerID")
}
