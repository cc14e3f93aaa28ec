package config

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
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9000

[db]
host = "localhost"
port = 5432
user = "finquest"
password = "secret"
database = "finquest"

[auth]
jwt_secret = "test-secret"
access_ttl_minutes = 30
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address())
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, "finquest", cfg.DB.Database)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
[auth]
jwt_secret = "test-secret"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
