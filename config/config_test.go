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
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef-secret"
db:
  name: roster_test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "roster_test", cfg.Database.Name)
	assert.Equal(t, "UTC", cfg.Course.DefaultTimeZone)
	assert.True(t, cfg.Course.TransactionalCreate)
	assert.Equal(t, 30, cfg.Export.RateLimit)
	assert.Equal(t, time.Minute, cfg.Export.RateLimitWindow)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Contains(t, cfg.Database.DSN(), "dbname=roster_test")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "0123456789abcdef-secret"
server:
  port: 8081
`)
	t.Setenv("ROSTER_SERVER_PORT", "9090")
	t.Setenv("ROSTER_COURSE_TRANSACTIONAL_CREATE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Course.TransactionalCreate)
}

func TestLoad_SecretFromEnv(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("ROSTER_AUTH_JWT_SECRET", "env-secret-0123456789")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret-0123456789", cfg.Auth.JWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Auth:   AuthConfig{JWTSecret: "0123456789abcdef"},
			Course: CourseConfig{DefaultTimeZone: "UTC"},
			Export: ExportConfig{RateLimit: 10},
		}
	}

	assert.NoError(t, valid().Validate())

	short := valid()
	short.Auth.JWTSecret = "short"
	assert.Error(t, short.Validate())

	badPort := valid()
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	badTZ := valid()
	badTZ.Course.DefaultTimeZone = "Atlantis/Lost"
	assert.Error(t, badTZ.Validate())

	emptyTZ := valid()
	emptyTZ.Course.DefaultTimeZone = ""
	assert.Error(t, emptyTZ.Validate())

	noLimit := valid()
	noLimit.Export.RateLimit = 0
	assert.Error(t, noLimit.Validate())
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("ROSTER_TEST_A=from-file\nROSTER_TEST_B=from-file\n"), 0o600))

	t.Setenv("ROSTER_TEST_A", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("ROSTER_TEST_B") })

	loadDotEnv(file)

	assert.Equal(t, "from-env", os.Getenv("ROSTER_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("ROSTER_TEST_B"))
}
