package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"INV_APP_NAME":                 os.Getenv("INV_APP_NAME"),
		"INV_APP_ENV":                  os.Getenv("INV_APP_ENV"),
		"INV_APP_PORT":                 os.Getenv("INV_APP_PORT"),
		"INV_DATABASE_HOST":            os.Getenv("INV_DATABASE_HOST"),
		"INV_DATABASE_PORT":            os.Getenv("INV_DATABASE_PORT"),
		"INV_DATABASE_USER":            os.Getenv("INV_DATABASE_USER"),
		"INV_DATABASE_PASSWORD":        os.Getenv("INV_DATABASE_PASSWORD"),
		"INV_DATABASE_DBNAME":          os.Getenv("INV_DATABASE_DBNAME"),
		"INV_DATABASE_SSLMODE":         os.Getenv("INV_DATABASE_SSLMODE"),
		"INV_DATABASE_MAX_OPEN_CONNS":  os.Getenv("INV_DATABASE_MAX_OPEN_CONNS"),
		"INV_DATABASE_MAX_IDLE_CONNS":  os.Getenv("INV_DATABASE_MAX_IDLE_CONNS"),
		"INV_TELEMETRY_SAMPLING_RATIO": os.Getenv("INV_TELEMETRY_SAMPLING_RATIO"),
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

		assert.Equal(t, "inventory-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "inventory", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("loads values from environment variables with INV prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("INV_APP_NAME", "test-app")
		os.Setenv("INV_APP_PORT", "9000")
		os.Setenv("INV_DATABASE_HOST", "testdb.local")
		os.Setenv("INV_DATABASE_PORT", "5433")
		os.Setenv("INV_DATABASE_USER", "testuser")
		os.Setenv("INV_DATABASE_PASSWORD", "testpass")
		os.Setenv("INV_DATABASE_DBNAME", "testdb")
		os.Setenv("INV_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("INV_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("INV_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("INV_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates sampling ratio range", func(t *testing.T) {
		clearEnv()
		os.Setenv("INV_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("requires password and SSL in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("INV_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")

		os.Setenv("INV_DATABASE_PASSWORD", "secure-password")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode cannot be 'disable'")

		os.Setenv("INV_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
