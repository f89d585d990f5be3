package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
		ok    bool
	}{
		{name: "seconds", input: "86400", want: 24 * time.Hour, ok: true},
		{name: "go duration", input: "15m", want: 15 * time.Minute, ok: true},
		{name: "days", input: "7d", want: 7 * 24 * time.Hour, ok: true},
		{name: "padded", input: " 10d ", want: 10 * 24 * time.Hour, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "soon", ok: false},
		{name: "bad days", input: "xd", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDuration(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("JWT_ACCESS_EXPIRY", "")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "")
	t.Setenv("JWT_REFRESH_EXPIRY", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()
	require.NotNil(t, cfg)

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Database.ConnectTries)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "1d")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "10d")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example/")
	t.Setenv("AUTH_RATE_LIMIT", "3")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "access", cfg.JWT.Secret)
	assert.Equal(t, "refresh", cfg.JWT.RefreshSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 240*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "https://cdn.example", cfg.Media.PublicBaseURL)
	assert.Equal(t, 3, cfg.RateLimit.AuthLimit)
}

func TestValidateProductionSecrets(t *testing.T) {
	prod := func(access, refresh string) *Config {
		return &Config{Environment: "production", JWT: JWTConfig{Secret: access, RefreshSecret: refresh}}
	}

	require.NoError(t, prod("access", "refresh").Validate())

	err := prod(defaultAccessSecret, defaultRefreshSecret).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET must be set")
	assert.Contains(t, err.Error(), "REFRESH_TOKEN_SECRET must be set")

	err = prod("", "refresh").Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "REFRESH_TOKEN_SECRET must be set")

	assert.Error(t, prod("same", "same").Validate())

	dev := &Config{Environment: "development", JWT: JWTConfig{Secret: defaultAccessSecret, RefreshSecret: defaultRefreshSecret}}
	assert.NoError(t, dev.Validate())
}

func TestLoadProductionWithoutSecretsFailsValidation(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	for _, key := range []string{"ACCESS_TOKEN_SECRET", "JWT_SECRET", "REFRESH_TOKEN_SECRET", "JWT_REFRESH_SECRET"} {
		t.Setenv(key, "")
	}

	assert.Error(t, Load().Validate())

	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	assert.NoError(t, Load().Validate())
}
