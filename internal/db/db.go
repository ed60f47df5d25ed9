// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour spoken by the connected store.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// DB is a connection pool that remembers which dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
	url     string
}

// Open connects to the store named by databaseURL:
//
//	postgres://...      lib/pq
//	libsql://, wss://   hosted libSQL (Turso)
//	anything else       local SQLite file or in-memory database
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	driver, dialect := driverFor(databaseURL)

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if dialect == SQLite {
		// single writer
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	logrus.WithFields(logrus.Fields{
		"driver":  driver,
		"dialect": dialect.String(),
	}).Info("Connected to database")

	return &DB{DB: conn, Dialect: dialect, url: databaseURL}, nil
}

func driverFor(databaseURL string) (driver string, dialect Dialect) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "postgres", Postgres
	case strings.HasPrefix(databaseURL, "libsql://"), strings.HasPrefix(databaseURL, "wss://"):
		return "libsql", SQLite
	default:
		return "sqlite", SQLite
	}
}

// Rebind rewrites ? placeholders into the positional $n form Postgres expects.
func (d *DB) Rebind(query string) string {
	if d.Dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
