package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "local", env.Env)
	assert.True(t, env.IsLocal())
	assert.Equal(t, "3200", env.HTTPPort)
	assert.Equal(t, "http://localhost:8000/api", env.APIEnv.BaseURL)
	assert.Equal(t, 15*time.Second, env.Timeout)
	assert.Equal(t, []string{"*"}, env.AllowedOrigins)
	assert.Equal(t, "local", env.StorageEnv.Type)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOVAPM_ENV", "production")
	t.Setenv("NOVAPM_API_BASE_URL", "https://pm.example.com/api")
	t.Setenv("NOVAPM_API_TIMEOUT", "3s")
	t.Setenv("NOVAPM_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("NOVAPM_LOG_LEVEL", "warn")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.False(t, env.IsLocal())
	assert.Equal(t, "https://pm.example.com/api", env.APIEnv.BaseURL)
	assert.Equal(t, 3*time.Second, env.Timeout)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, env.AllowedOrigins)
	assert.Equal(t, slog.LevelWarn, env.SlogLevel())
}

func TestSlogLevelFallsBackToDebug(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&BaseEnv{LogLevel: "loud"}).SlogLevel())
	assert.Equal(t, slog.LevelDebug, (*BaseEnv)(nil).SlogLevel())
}

func TestLoadEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("NOVAPM_API_TIMEOUT", "soon")
	_, err := LoadEnv()
	assert.Error(t, err)
}
