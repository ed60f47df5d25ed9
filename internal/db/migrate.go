// internal/db/migrate.go
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned migrations;
// SQLite stores create their tables inline.
func (d *DB) Migrate(ctx context.Context) error {
	if d.Dialect == Postgres {
		return runPostgresMigrations(d.url)
	}
	if _, err := d.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}
	return nil
}

func runPostgresMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Migrations applied")
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS campaigns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	offer_title TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL DEFAULT '',
	channel TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	recipients INTEGER NOT NULL DEFAULT 0,
	opened INTEGER NOT NULL DEFAULT 0,
	clicked INTEGER NOT NULL DEFAULT 0,
	revenue TEXT,
	sent_date DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_campaigns_created_at ON campaigns(created_at);

CREATE TABLE IF NOT EXISTS diners (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	location TEXT NOT NULL,
	interests TEXT NOT NULL DEFAULT '[]',
	age INTEGER NOT NULL DEFAULT 0,
	last_visit TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT ''
);
`
