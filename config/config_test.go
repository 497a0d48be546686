package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "@every 1m", cfg.Jobs.SweepSchedule)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("VENDOR_RATE_PER_SECOND", "2.5")
	t.Setenv("VENDOR_TIMEOUT", "90s")
	t.Setenv("TOOLS_CATALOG_WATCH", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.Vendor.RatePerSecond)
	assert.Equal(t, 90*time.Second, cfg.Vendor.Timeout)
	assert.True(t, cfg.Vendor.WatchCatalog)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	t.Run("dev user forbidden in production", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "db"},
			Redis:    RedisConfig{Addr: "redis:6379"},
			Vendor:   VendorConfig{BaseURL: "https://vendor.example"},
			App:      AppConfig{Environment: "production", AllowDevUser: true},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("dsn satisfies database requirement", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{DSN: "postgres://localhost/designiq"},
			Redis:    RedisConfig{Addr: "redis:6379"},
			Vendor:   VendorConfig{BaseURL: "https://vendor.example"},
		}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing redis", func(t *testing.T) {
		cfg := &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "db"},
			Vendor:   VendorConfig{BaseURL: "https://vendor.example"},
		}
		assert.EqualError(t, cfg.Validate(), "REDIS_ADDR is required")
	})
}
