package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/facility-desk/internal/config"
	"github.com/iliyamo/facility-desk/internal/utils"
)

// Open connects to the configured store, applies pool settings, verifies
// the connection and returns it wrapped in a Gateway.  It is called once at
// startup; handlers share the returned pool.
func Open(ctx context.Context, cfg config.DBConfig) (*Gateway, error) {
	dialect := Dialect(strings.ToLower(cfg.Driver))

	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case MySQL:
		db, err = openMySQL(cfg)
	case SQLServer:
		db, err = sql.Open("sqlserver", sqlServerDSN(cfg))
	case SQLite:
		db, err = sql.Open("sqlite", sqliteDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	// Pool settings
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Ping with timeout
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return NewGateway(db, dialect, cfg.StatementTimeout), nil
}

// openMySQL builds the connector from a mysql.Config rather than a DSN
// string so the fixed IST location survives (a DSN only carries zone names
// that time.LoadLocation understands).
func openMySQL(cfg config.DBConfig) (*sql.DB, error) {
	mc := mysqlConfig(cfg)
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func mysqlConfig(cfg config.DBConfig) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.DefaultPort())
	mc.DBName = cfg.Name
	mc.Params = map[string]string{"charset": "utf8mb4"}
	// DATETIME <-> time.Time in IST, both for bound parameters and scans
	mc.ParseTime = true
	mc.Loc = utils.IST
	// affected rows = matched rows, so a reassignment to the same user still counts
	mc.ClientFoundRows = true
	mc.Timeout = cfg.ConnectTimeout
	switch {
	case !cfg.Encrypt:
		mc.TLSConfig = "false"
	case cfg.TrustServerCertificate:
		mc.TLSConfig = "skip-verify"
	default:
		mc.TLSConfig = "true"
	}
	return mc
}

func sqlServerDSN(cfg config.DBConfig) string {
	q := url.Values{}
	q.Set("database", cfg.Name)
	if cfg.Encrypt {
		q.Set("encrypt", "true")
	} else {
		q.Set("encrypt", "disable")
	}
	q.Set("TrustServerCertificate", strconv.FormatBool(cfg.TrustServerCertificate))
	if cfg.ConnectTimeout > 0 {
		q.Set("dial timeout", strconv.Itoa(int(cfg.ConnectTimeout/time.Second)))
	}
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Pass),
		Host:     net.JoinHostPort(cfg.Host, cfg.DefaultPort()),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func sqliteDSN(cfg config.DBConfig) string {
	return cfg.Name + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}
