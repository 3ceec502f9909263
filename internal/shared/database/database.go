package database

import (
	"database/sql"
	"embed"
	"errors"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens (creating if needed) the sqlite database at path, applies
// connection pragmas and runs any pending embedded migrations. The pool is
// capped at a single connection: sqlite allows one writer at a time, and the
// repositories rely on serialized writes for their first-writer-wins
// registration.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, oops.With("database_path", path, "context", "failed to create database directory").Wrap(err)
		}
	}

	dsn := "file:" + path + "?_time_format=sqlite" +
		"&_pragma=busy_timeout(10000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.With("database_path", path, "context", "failed to open database").Wrap(err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, oops.With("database_path", path, "context", "failed to ping database").Wrap(err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, oops.With("database_path", path, "context", "failed to run migrations").Wrap(err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return oops.With("context", "failed to load embedded migrations").Wrap(err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return oops.With("context", "failed to create migration driver").Wrap(err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return oops.With("context", "failed to create migrator").Wrap(err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return oops.With("context", "failed to apply migrations").Wrap(err)
	}

	return nil
}
