package config_test

import (
	"testing"
	"time"

	"authapi/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "test_jwt_secret", cfg.JWTSecret)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, config.LoginFieldUsername, cfg.LoginField)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 60*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 50*1024, cfg.BodyLimitBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownLoginField(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("LOGIN_FIELD", "phone")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_EmailLoginFieldAndProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("LOGIN_FIELD", "email")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, config.LoginFieldEmail, cfg.LoginField)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.IsProduction())
}
