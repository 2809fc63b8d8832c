// Package database is the persistence gateway: it owns the connection pool,
// runs parameterized statements under a bounded timeout and reports either
// rows or affected-row counts.
package database

import (
	"context"
	"database/sql"
	"time"
)

// DefaultStatementTimeout bounds a statement when none is configured.
const DefaultStatementTimeout = 5 * time.Second

// Gateway executes fixed statements with bound parameters against a pooled
// connection.  It is safe for concurrent use.
type Gateway struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

// NewGateway wraps an open pool.  A non-positive timeout falls back to
// DefaultStatementTimeout.
func NewGateway(db *sql.DB, dialect Dialect, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultStatementTimeout
	}
	return &Gateway{db: db, dialect: dialect, timeout: timeout}
}

// Dialect reports the SQL flavour of the underlying store.
func (g *Gateway) Dialect() Dialect { return g.dialect }

// Exec runs a statement and returns the number of affected rows.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.db.ExecContext(ctx, g.dialect.Rebind(query), args...)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Query runs a statement and calls scan once per returned row.  The rows
// are closed before Query returns.
func (g *Gateway) Query(ctx context.Context, query string, scan func(*sql.Rows) error, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	rows, err := g.db.QueryContext(ctx, g.dialect.Rebind(query), args...)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return classify(err)
		}
	}
	return classify(rows.Err())
}

// QueryRow runs a statement expected to return at most one row and scans
// it into dest.  sql.ErrNoRows is returned unwrapped when nothing matches.
func (g *Gateway) QueryRow(ctx context.Context, query string, args []any, dest ...any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	return classify(g.db.QueryRowContext(ctx, g.dialect.Rebind(query), args...).Scan(dest...))
}

// Ping checks that the store is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return classify(g.db.PingContext(ctx))
}

// Close releases the pool.
func (g *Gateway) Close() error { return g.db.Close() }
