package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	keys := []string{
		"AGENCY_APP_NAME",
		"AGENCY_APP_ENV",
		"AGENCY_APP_PORT",
		"AGENCY_APP_TIMEZONE",
		"AGENCY_DATABASE_HOST",
		"AGENCY_DATABASE_PORT",
		"AGENCY_DATABASE_PASSWORD",
		"AGENCY_DATABASE_SSLMODE",
		"AGENCY_DATABASE_MAX_OPEN_CONNS",
		"AGENCY_DATABASE_MAX_IDLE_CONNS",
		"AGENCY_JWT_SECRET",
		"AGENCY_STORAGE_ENABLED",
		"AGENCY_STORAGE_ACCESS_KEY_ID",
		"AGENCY_STORAGE_SECRET_ACCESS_KEY",
		"AGENCY_REDIS_ENABLED",
		"AGENCY_TELEMETRY_SAMPLING_RATIO",
		"AGENCY_WEBHOOK_TIMEOUT",
	}
	originalEnv := make(map[string]string, len(keys))
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "agency-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "agency", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "company-assets", cfg.Storage.CompanyAssetsBucket)
		assert.Equal(t, "print-files", cfg.Storage.PrintFilesBucket)
		assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)
		assert.Equal(t, time.Minute, cfg.Scheduler.CampaignInterval)
	})

	t.Run("loads values from environment variables with AGENCY prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGENCY_APP_NAME", "test-app")
		os.Setenv("AGENCY_APP_PORT", "9000")
		os.Setenv("AGENCY_DATABASE_HOST", "testdb.local")
		os.Setenv("AGENCY_DATABASE_PORT", "5433")
		os.Setenv("AGENCY_REDIS_ENABLED", "true")
		os.Setenv("AGENCY_WEBHOOK_TIMEOUT", "3s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGENCY_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("AGENCY_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGENCY_APP_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timezone")
	})

	t.Run("storage requires credentials when enabled", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGENCY_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage")

		os.Setenv("AGENCY_STORAGE_ACCESS_KEY_ID", "key")
		os.Setenv("AGENCY_STORAGE_SECRET_ACCESS_KEY", "secret")
		_, err = Load()
		require.NoError(t, err)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGENCY_APP_ENV", "production")
		os.Setenv("AGENCY_JWT_SECRET", "short")
		os.Setenv("AGENCY_DATABASE_PASSWORD", "pw")
		os.Setenv("AGENCY_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")

		os.Setenv("AGENCY_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGENCY_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss:w/rd", DBName: "agency", SSLMode: "disable"}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://u:p%40ss%3Aw%2Frd@db:5432/agency")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestAppConfig_Location(t *testing.T) {
	a := AppConfig{Timezone: "Asia/Riyadh"}
	assert.Equal(t, "Asia/Riyadh", a.Location().String())
	a.Timezone = "nope"
	assert.Equal(t, time.UTC, a.Location())
}
