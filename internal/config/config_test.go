package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins: ["https://crm.example.com"]
database:
  url: postgres://crm@localhost/crm?sslmode=disable
auth:
  jwt_secret: 0123456789abcdef0123
  access_ttl: 10m
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://crm.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Bulk.Concurrency)
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://file
auth:
  jwt_secret: from-file-secret-123
`)
	t.Setenv("CRMHUB_DATABASE_URL", "postgres://env")
	t.Setenv("CRMHUB_PORT", "7000")
	t.Setenv("CRMHUB_TELEGRAM_TOKEN", "tg-token")
	t.Setenv("CRMHUB_TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("CRMHUB_ALLOWED_ORIGINS", "https://a.test, https://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-100200), cfg.Telegram.ChatID)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		path := writeConfig(t, "auth:\n  jwt_secret: 0123456789abcdef\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "database.url")
	})
	t.Run("short secret", func(t *testing.T) {
		path := writeConfig(t, "database:\n  url: postgres://x\nauth:\n  jwt_secret: short\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "jwt_secret")
	})
	t.Run("bad port env", func(t *testing.T) {
		path := writeConfig(t, "database:\n  url: postgres://x\nauth:\n  jwt_secret: 0123456789abcdef\n")
		t.Setenv("CRMHUB_PORT", "eighty")
		_, err := Load(path)
		assert.ErrorContains(t, err, "CRMHUB_PORT")
	})
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
