package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.PostgresMaxOpenConns)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	content := `PORT = "8080"
STORE_DRIVER = "SQLite"
SQLITE_PATH = "/tmp/library.db"
RATE_LIMIT_WINDOW = "1m"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/library.db", cfg.SQLitePath)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(`PORT = "8080"`), 0o600))
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT = = ="), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.StoreDriver = "mongo"
		assert.ErrorContains(t, cfg.Validate(), "unknown STORE_DRIVER")
	})
	t.Run("sqlite needs a path", func(t *testing.T) {
		cfg := valid()
		cfg.StoreDriver = DriverSQLite
		cfg.SQLitePath = ""
		assert.Error(t, cfg.Validate())
	})
	t.Run("postgres needs a host", func(t *testing.T) {
		cfg := valid()
		cfg.StoreDriver = DriverPostgres
		cfg.PostgresHost = ""
		assert.ErrorContains(t, cfg.Validate(), "POSTGRES_HOST")
	})
	t.Run("redis needs an address", func(t *testing.T) {
		cfg := valid()
		cfg.StoreDriver = DriverRedis
		cfg.RedisAddr = ""
		assert.Error(t, cfg.Validate())
	})
	t.Run("rate limit window", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimitWindow = 0
		assert.Error(t, cfg.Validate())

		cfg.RateLimitRequests = 0
		assert.NoError(t, cfg.Validate(), "window is irrelevant when disabled")
	})
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "lib",
		PostgresPassword: "secret",
		PostgresDB:       "books",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=lib password=secret dbname=books sslmode=disable", cfg.PostgresConnectionString())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestPostgresPoolGetters(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 25, cfg.GetPostgresMaxOpenConns())
	assert.Equal(t, 5, cfg.GetPostgresMaxIdleConns())
	assert.Equal(t, 5, cfg.GetPostgresConnMaxLifeMinutes())

	cfg = &Config{PostgresMaxOpenConns: 50, PostgresMaxIdleConns: 10, PostgresConnMaxLifeMinutes: 30}
	assert.Equal(t, 50, cfg.GetPostgresMaxOpenConns())
	assert.Equal(t, 10, cfg.GetPostgresMaxIdleConns())
	assert.Equal(t, 30, cfg.GetPostgresConnMaxLifeMinutes())
}
