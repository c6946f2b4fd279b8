package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDBName(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("SESSION_SECRET", "s3cret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_NAME")
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_NAME", "ojt")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_NAME", "ojt")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "*", cfg.AppURL)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 30*24*time.Hour, cfg.RememberTTL)
	assert.Equal(t, 480.0, cfg.RequiredHours)
	assert.Equal(t, "uploads/documents", cfg.UploadDir)
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "DB_NAME=fromfile\nSESSION_SECRET=filesecret\nSESSION_TTL=90\nORPHAN_GRACE=2h\nLOG_CONSOLE=false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_FILE", path)
	// godotenv does not override variables that are already set
	t.Setenv("DB_NAME", "")
	os.Unsetenv("DB_NAME")
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	t.Setenv("SESSION_TTL", "")
	os.Unsetenv("SESSION_TTL")
	t.Setenv("ORPHAN_GRACE", "")
	os.Unsetenv("ORPHAN_GRACE")
	t.Setenv("LOG_CONSOLE", "")
	os.Unsetenv("LOG_CONSOLE")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.DBName)
	assert.Equal(t, 90*time.Second, cfg.SessionTTL)
	assert.Equal(t, 2*time.Hour, cfg.OrphanGrace)
	assert.False(t, cfg.Log.Console)
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	require.Error(t, err)
}
