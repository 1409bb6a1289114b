package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("CONTACT_EMAIL", "owner@example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 15*time.Second, cfg.SMTP.Timeout)
	assert.Equal(t, 5, cfg.Outbox.MaxAttempts)
	assert.Equal(t, float64(1), cfg.RateLimit.RPS)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("APP_ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.Outbox.MaxAttempts)
	assert.True(t, cfg.App.IsProduction())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost"},
			Store:    StoreConfig{Driver: StoreDriverPostgres},
			SMTP:     SMTPConfig{Host: "smtp", ContactEmail: "o@example.com"},
		}
	}

	require.NoError(t, base().Validate())

	cases := map[string]func(*Config){
		"PORT is required":          func(c *Config) { c.Server.Port = "" },
		"CONTACT_EMAIL is required": func(c *Config) { c.SMTP.ContactEmail = "" },
		"SMTP_HOST is required":     func(c *Config) { c.SMTP.Host = "" },
		"DB_DSN or DB_HOST":         func(c *Config) { c.Database.Host = "" },
		"REDIS_ADDR is required":    func(c *Config) { c.Store.Driver = StoreDriverRedis },
		"unknown STORE_DRIVER":      func(c *Config) { c.Store.Driver = "mongo" },
	}
	for want, mutate := range cases {
		cfg := base()
		mutate(cfg)
		err := cfg.Validate()
		require.Error(t, err, want)
		assert.Contains(t, err.Error(), want)
	}
}
