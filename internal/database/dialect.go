package database

import (
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"
)

// Dialect identifies the SQL flavour behind a Gateway.
type Dialect string

const (
	MySQL     Dialect = "mysql"
	SQLServer Dialect = "sqlserver"
	SQLite    Dialect = "sqlite"
)

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
// Statements in this module never contain a literal '?'.
func (d Dialect) Rebind(query string) string {
	if d != SQLServer || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("@p")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) gooseDialect() goose.Dialect {
	switch d {
	case SQLServer:
		return goose.DialectMSSQL
	case SQLite:
		return goose.DialectSQLite3
	default:
		return goose.DialectMySQL
	}
}
