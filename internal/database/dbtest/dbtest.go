// Package dbtest provides a migrated, file-backed SQLite gateway for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/facility-desk/internal/config"
	"github.com/iliyamo/facility-desk/internal/database"
)

// New opens a fresh SQLite database under t.TempDir, applies all
// migrations and closes the pool when the test ends.
func New(t testing.TB) *database.Gateway {
	t.Helper()
	cfg := config.DBConfig{
		Driver:           config.DriverSQLite,
		Name:             filepath.Join(t.TempDir(), "facility.db"),
		StatementTimeout: 5 * time.Second,
		ConnectTimeout:   5 * time.Second,
		MaxOpenConns:     8,
		MaxIdleConns:     8,
	}
	gw, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close() })

	_, err = database.Migrate(context.Background(), gw)
	require.NoError(t, err)
	return gw
}

// SeedTicket inserts an unassigned, open ticket.
func SeedTicket(t testing.TB, gw *database.Gateway, roomNo, dept string) {
	t.Helper()
	Exec(t, gw,
		"INSERT INTO facility_check_details (FACILITY_CKD_ROOMNO, FACILITY_CKD_DEPT, status, tkt_status) VALUES (?, ?, 0, 0)",
		roomNo, dept)
}

// Exec runs a statement and fails the test on error.
func Exec(t testing.TB, gw *database.Gateway, query string, args ...any) {
	t.Helper()
	_, err := gw.Exec(context.Background(), query, args...)
	require.NoError(t, err)
}
