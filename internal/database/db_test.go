package database

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/facility-desk/internal/config"
	"github.com/iliyamo/facility-desk/internal/utils"
)

func testDBConfig() config.DBConfig {
	return config.DBConfig{
		Host:           "db.internal",
		User:           "facility",
		Pass:           "s3cret",
		Name:           "facility",
		Encrypt:        true,
		ConnectTimeout: 5 * time.Second,
	}
}

func TestMySQLConfig(t *testing.T) {
	cfg := testDBConfig()
	mc := mysqlConfig(cfg)

	assert.Equal(t, "db.internal:3306", mc.Addr)
	assert.Equal(t, "facility", mc.DBName)
	assert.True(t, mc.ParseTime)
	assert.True(t, mc.ClientFoundRows)
	assert.Equal(t, utils.IST, mc.Loc)
	assert.Equal(t, "true", mc.TLSConfig)

	cfg.TrustServerCertificate = true
	assert.Equal(t, "skip-verify", mysqlConfig(cfg).TLSConfig)

	cfg.Encrypt = false
	assert.Equal(t, "false", mysqlConfig(cfg).TLSConfig)
}

func TestSQLServerDSN(t *testing.T) {
	cfg := testDBConfig()
	cfg.Driver = config.DriverSQLServer
	cfg.TrustServerCertificate = true

	u, err := url.Parse(sqlServerDSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "db.internal:1433", u.Host)
	pass, _ := u.User.Password()
	assert.Equal(t, "s3cret", pass)
	assert.Equal(t, "facility", u.Query().Get("database"))
	assert.Equal(t, "true", u.Query().Get("encrypt"))
	assert.Equal(t, "true", u.Query().Get("TrustServerCertificate"))
	assert.Equal(t, "5", u.Query().Get("dial timeout"))
}
