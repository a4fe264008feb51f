// Package config loads process configuration from the environment via Viper.
// Config is read once at startup and treated as immutable afterwards.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Login identifier modes. The source of truth for which field identifies a
// user at login; registration always records both username and email.
const (
	LoginFieldUsername = "username"
	LoginFieldEmail    = "email"
)

// Config holds all externally supplied settings.
type Config struct {
	AppPort     string
	DatabaseDSN string // PostgreSQL DSN; empty selects the SQLite fallback
	SQLitePath  string
	RabbitMQURL string // empty disables auth-event publishing

	JWTSecret string
	TokenTTL  time.Duration

	LoginField string

	RateLimitMax    int
	RateLimitWindow time.Duration
	BodyLimitBytes  int

	Env string
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "auth.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("TOKEN_TTL", "720h") // 30 days
	viper.SetDefault("LOGIN_FIELD", LoginFieldUsername)
	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "60m")
	viper.SetDefault("BODY_LIMIT_BYTES", 50*1024)
	viper.SetDefault("APP_ENV", "development")
	viper.AutomaticEnv()

	cfg := &Config{
		AppPort:         viper.GetString("APP_PORT"),
		DatabaseDSN:     viper.GetString("DATABASE_DSN"),
		SQLitePath:      viper.GetString("SQLITE_PATH"),
		RabbitMQURL:     viper.GetString("RABBITMQ_URL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		TokenTTL:        viper.GetDuration("TOKEN_TTL"),
		LoginField:      viper.GetString("LOGIN_FIELD"),
		RateLimitMax:    viper.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: viper.GetDuration("RATE_LIMIT_WINDOW"),
		BodyLimitBytes:  viper.GetInt("BODY_LIMIT_BYTES"),
		Env:             viper.GetString("APP_ENV"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be a positive duration")
	}
	if cfg.LoginField != LoginFieldUsername && cfg.LoginField != LoginFieldEmail {
		return nil, fmt.Errorf("LOGIN_FIELD must be %q or %q, got %q",
			LoginFieldUsername, LoginFieldEmail, cfg.LoginField)
	}

	return cfg, nil
}

// IsProduction reports whether the process runs in production mode.
// Error responses omit diagnostic details when it returns true.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
