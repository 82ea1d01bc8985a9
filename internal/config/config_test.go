package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/app")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, 10*time.Minute, cfg.ResetCodeTTL)
	assert.Equal(t, 5*time.Minute, cfg.ResetSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.SocialTimeout)
	assert.Equal(t, 6, cfg.PasswordMinLength)
	assert.Equal(t, 6, cfg.ResetCodeLength)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("RESET_CODE_TTL_MINUTES", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenExpiry)
	assert.Equal(t, 3*time.Minute, cfg.ResetCodeTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	validEnv(t)
	t.Setenv("SMTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "too-short" },
			wantErr: "at least 32",
		},
		{
			name:    "unsupported algorithm",
			mutate:  func(c *Config) { c.JWTAlgorithm = "RS256" },
			wantErr: "JWT_ALGORITHM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DatabaseURL:  "postgres://localhost:5432/app",
				JWTSecret:    "0123456789abcdef0123456789abcdef",
				JWTAlgorithm: "HS256",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
