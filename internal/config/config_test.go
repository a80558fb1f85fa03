package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "yamdb-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "log", cfg.Mail.Transport)
	assert.Empty(t, cfg.RateLimit.TrustedProxies)
	assert.Equal(t, "root:@tcp(127.0.0.1:3306)/yamdb?parseTime=true&loc=Local&charset=utf8mb4", cfg.MySQLDSN())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9000

[database]
driver = "sqlite"
sqlite_path = "/tmp/yamdb.db"

[mail]
transport = "queue"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("RATELIMIT_AUTH_PER_SECOND", "2.5")
	t.Setenv("JWT_EXPIRE_MINUTE", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.1.0.0/16,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/yamdb.db", cfg.Database.SQLitePath)
	assert.Equal(t, "queue", cfg.Mail.Transport)
	assert.Equal(t, 2.5, cfg.RateLimit.AuthPerSecond)
	assert.Equal(t, 1440, cfg.Auth.JWTExpireMinute)
	assert.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, cfg.RateLimit.TrustedProxies)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("mail transport", func(t *testing.T) {
		t.Setenv("MAIL_TRANSPORT", "pigeon")
		_, err := Load()
		assert.ErrorContains(t, err, "unsupported mail transport")
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app\nport = "), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.ErrorContains(t, err, "decode config file failed")
}
