// Package store mirrors committed registry state into an embedded SQLite
// database and keeps an append-only audit log of emitted notifications.
// The in-memory registry stays authoritative; this layer exists so a
// restarted daemon resumes where it left off.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/logging"
)

// SQLiteStore wraps the database handle. It implements registry.Persister.
type SQLiteStore struct {
	db     *sql.DB
	logger *logging.ColoredLogger
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for an ephemeral database.
func Open(ctx context.Context, path string, logger *logging.ColoredLogger) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single writer keeps SQLite happy under WAL.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if logger != nil {
		logger.ComponentInfo(logging.ComponentStore, "sqlite store ready",
			zap.String("path", path))
	}
	return s, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrations run in order; each entry is applied at most once.
var migrations = []struct {
	version int
	stmts   []string
}{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS libraries (
				name             TEXT PRIMARY KEY,
				owner            TEXT NOT NULL,
				description      TEXT NOT NULL DEFAULT '',
				tags             TEXT NOT NULL DEFAULT '[]',
				language         TEXT NOT NULL DEFAULT '',
				is_private       INTEGER NOT NULL DEFAULT 0,
				license_fee      TEXT NOT NULL DEFAULT '0',
				license_required INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE TABLE IF NOT EXISTS versions (
				seq          INTEGER PRIMARY KEY AUTOINCREMENT,
				library      TEXT NOT NULL,
				version      TEXT NOT NULL,
				content_ref  TEXT NOT NULL,
				publisher    TEXT NOT NULL,
				published_at TEXT NOT NULL,
				dependencies TEXT NOT NULL DEFAULT '[]',
				deprecated   INTEGER NOT NULL DEFAULT 0,
				UNIQUE(library, version)
			)`,
			`CREATE TABLE IF NOT EXISTS authorizations (
				library TEXT NOT NULL,
				address TEXT NOT NULL,
				PRIMARY KEY(library, address)
			)`,
			`CREATE TABLE IF NOT EXISTS licenses (
				library TEXT NOT NULL,
				address TEXT NOT NULL,
				PRIMARY KEY(library, address)
			)`,
			`CREATE TABLE IF NOT EXISTS balances (
				address TEXT PRIMARY KEY,
				balance TEXT NOT NULL DEFAULT '0'
			)`,
			`CREATE TABLE IF NOT EXISTS audit_log (
				seq        INTEGER PRIMARY KEY AUTOINCREMENT,
				event_id   TEXT NOT NULL,
				event_type TEXT NOT NULL,
				payload    TEXT NOT NULL,
				emitted_at INTEGER NOT NULL
			)`,
		},
	},
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, m.version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if applied > 0 {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		for _, stmt := range m.stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}

		if s.logger != nil {
			s.logger.ComponentInfo(logging.ComponentStore, "applied migration",
				zap.Int("version", m.version))
		}
	}
	return nil
}
