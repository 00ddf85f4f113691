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
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// TestLoad тестирует чтение файла поверх значений по умолчанию
func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
app:
  timezone: "UTC"
repository:
  type: "File"
  data_dir: "/var/lib/taskboard"
auth:
  jwt_secret: "s3cret"
  token_ttl: 2h
session:
  sweep_interval: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.GetServerAddr())
	assert.Equal(t, RepositoryFile, cfg.Repository.Type)
	assert.Equal(t, "/var/lib/taskboard", cfg.Repository.DataDir)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Session.SweepInterval)
	// значения по умолчанию
	assert.Equal(t, SessionMemory, cfg.Session.Store)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "taskboard", cfg.Auth.Issuer)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

// TestLoad_Errors тестирует ошибки конфигурации
func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "error - unknown repository", body: "auth:\n  jwt_secret: x\nrepository:\n  type: mongo\n"},
		{name: "error - postgres without url", body: "auth:\n  jwt_secret: x\nrepository:\n  type: postgres\n"},
		{name: "error - unknown session store", body: "auth:\n  jwt_secret: x\nsession:\n  store: memcached\n"},
		{name: "error - no secret", body: "server:\n  port: \"1\"\n"},
		{name: "error - bad timezone", body: "auth:\n  jwt_secret: x\napp:\n  timezone: Mars/Olympus\n"},
		{name: "error - unknown field", body: "auth:\n  jwt_secret: x\n  jwt_secrt: y\n"},
		{name: "error - bad duration", body: "auth:\n  jwt_secret: x\n  token_ttl: forever\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

// TestApplyEnv тестирует переопределение через окружение
func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TASKBOARD_DATABASE_URL":        "postgres://db/x",
		"TASKBOARD_REPOSITORY_TYPE":     "postgres",
		"TASKBOARD_LOGGING_DEVELOPMENT": "true",
		"TASKBOARD_RATE_LIMIT_RPM":      "5",
		"TASKBOARD_AUTH_JWT_SECRET":     "from-env",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "postgres://db/x", cfg.Database.URL)
	assert.Equal(t, RepositoryPostgres, cfg.Repository.Type)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 5, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)

	env["TASKBOARD_RATE_LIMIT_RPM"] = "many"
	assert.Error(t, cfg.applyEnv(lookup))
}

// TestLoad_EmptyFile тестирует пустой файл
func TestLoad_EmptyFile(t *testing.T) {
	t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "x")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, RepositoryInMemory, cfg.Repository.Type)
}
