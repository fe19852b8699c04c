package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
user = "trek"
dbname = "trek"

[auth]
jwt_secret = "file-secret"
cron_secret = "cron-from-file"

[site]
base_url = "https://treks.example.com/"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://treks.example.com", cfg.Site.BaseURL)
	assert.Equal(t, 5, cfg.Outbox.MaxAttempts)
	assert.Equal(t, "cron-from-file", cfg.Auth.CronSecret)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=5432 user=trek")
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("CRON_SECRET", "cron-from-env")
	t.Setenv("JWT_SECRET", "jwt-from-env")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "cron-from-env", cfg.Auth.CronSecret)
	assert.Equal(t, "jwt-from-env", cfg.Auth.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "[database]\nhost = \"db\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
