package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func setDBEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "facility")
	t.Setenv("DB_NAME", "facility")
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	setDBEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, "3306", cfg.DB.DefaultPort())
	assert.True(t, cfg.DB.Encrypt)
	assert.False(t, cfg.DB.TrustServerCertificate)
	assert.Equal(t, 5*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, PasswordModeBcrypt, cfg.PasswordMode)
	assert.True(t, cfg.Cache.Caches("get"))
	assert.False(t, cfg.Cache.Caches("POST"))
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_MissingDatabaseSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_HOST", "db.internal")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "DB_USER")
}

func TestLoad_SQLServerDefaultPort(t *testing.T) {
	chdir(t, t.TempDir())
	setDBEnv(t)
	t.Setenv("DB_DRIVER", "sqlserver")
	t.Setenv("DB_TRUST_SERVER_CERT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "1433", cfg.DB.DefaultPort())
	assert.True(t, cfg.DB.TrustServerCertificate)
}

func TestLoad_SQLiteOnlyNeedsName(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "facility.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "facility.db", cfg.DB.Name)
}

func TestLoad_RejectsUnknownPasswordMode(t *testing.T) {
	chdir(t, t.TempDir())
	setDBEnv(t)
	t.Setenv("PASSWORD_MODE", "md5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASSWORD_MODE")
}

func TestRateLimitConfig_Normalize(t *testing.T) {
	r := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: time.Second}
	r.normalize()

	assert.Equal(t, 1, r.Capacity)
	assert.Equal(t, 1, r.RefillTokens)
	assert.Equal(t, time.Second, r.RefillInterval)
	assert.Equal(t, 5*time.Second, r.TTL)
}

func TestNewRedisClient_DisabledWithoutAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{}))
}
