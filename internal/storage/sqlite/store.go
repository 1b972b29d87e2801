// Package sqlite implements the clients, token, users and sessions
// repositories over a single SQLite file, so every subsystem shares the same
// transaction and visibility boundaries.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT    NOT NULL UNIQUE,
	password_hash TEXT    NOT NULL,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS oauth2_clients (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT    NOT NULL DEFAULT 'Primary',
	client_id         TEXT    NOT NULL UNIQUE,
	client_secret     TEXT    NOT NULL UNIQUE,
	created_at        INTEGER NOT NULL,
	secret_expires_at INTEGER,
	user_id           INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	UNIQUE (name, user_id)
);
CREATE INDEX IF NOT EXISTS idx_oauth2_clients_user_id ON oauth2_clients(user_id);

CREATE TABLE IF NOT EXISTS tokens (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	access_token       TEXT    NOT NULL UNIQUE,
	refresh_token      TEXT    NOT NULL UNIQUE,
	access_expires_at  INTEGER NOT NULL,
	refresh_expires_at INTEGER NOT NULL,
	revoked            INTEGER NOT NULL DEFAULT 0,
	client_id          INTEGER NOT NULL REFERENCES oauth2_clients(id) ON DELETE CASCADE,
	user_id            INTEGER REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT    PRIMARY KEY,
	user_id    INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);
`

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store backs all repositories with one SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the SQLite store and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	// Pragmas go in the dsn so they apply to every pooled connection;
	// _txlock=immediate keeps concurrent write transactions from deadlocking
	// on lock upgrades.
	dsn := cleanPath + "?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// DB returns the raw database handle.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// isConstraintError detects SQLite uniqueness/constraint violations.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint")
}

// inTx runs fn inside a transaction, rolling back on error or abandonment.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
