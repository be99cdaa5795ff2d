// Package sqlite provides SQLite-based storage implementations for munifin
// services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// migrations are applied in order; the database records how many have run in
// PRAGMA user_version. Append only.
var migrations = []string{
	`
	CREATE TABLE extractions (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		source_hash TEXT NOT NULL DEFAULT '',
		table_index INTEGER NOT NULL DEFAULT 0,
		header TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE records (
		extraction_id TEXT NOT NULL REFERENCES extractions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		cells TEXT NOT NULL,
		PRIMARY KEY (extraction_id, position)
	);

	CREATE INDEX idx_extractions_source_url ON extractions(source_url);
	CREATE INDEX idx_extractions_source_hash ON extractions(source_hash);
	`,
	`
	CREATE TABLE summaries (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		reference TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		oparl_id TEXT NOT NULL DEFAULT '',
		excerpt TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX idx_summaries_fingerprint
		ON summaries(fingerprint) WHERE fingerprint <> '';
	CREATE INDEX idx_summaries_reference ON summaries(reference);
	`,
}

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and brings the schema up to date.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and ":memory:" databases
	// are per connection.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if db.path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	db.db = conn

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		db.db = nil
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// Version returns the number of applied migrations.
func (db *DB) Version(ctx context.Context) (int, error) {
	var v int
	err := db.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// migrate runs every migration newer than the stored user_version, each in
// its own transaction together with the version bump.
func (db *DB) migrate(ctx context.Context) error {
	version, err := db.Version(ctx)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
