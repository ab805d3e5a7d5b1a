package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("KV_DRIVER", "")
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "redis", cfg.KVDriver)
	assert.Equal(t, time.Minute, cfg.ReminderInterval)
	assert.Equal(t, "https://graphql.anilist.co", cfg.AniListAPIURL)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.PushEnabled())
	assert.False(t, cfg.HostedEnabled())
}

func TestLoadConfig_HostedBackend(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DATABASE_URL", "postgres://animelog@localhost:5432/animelog?sslmode=disable")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.HostedEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := LoadConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_InvalidInt(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "not-a-port")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "HTTP_PORT")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		HTTPPort:        0,
		KVDriver:        "memcached",
		LogLevel:        "verbose",
		LogFormat:       "xml",
		AuthJWTSecret:   "short",
		ReminderWorkers: 0,
		CORSOrigins:     []string{"localhost:3000"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"HTTP_PORT", "KV_DRIVER", "LOG_LEVEL", "LOG_FORMAT", "AUTH_JWT_SECRET", "REMINDER_WORKERS", "CORS_ORIGINS"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadEnvStringSlice_TrimsSpaces(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.test , http://b.test")

	var got []string
	require.NoError(t, loadEnvStringSlice(&got, "CORS_ORIGINS", nil))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, got)
}
