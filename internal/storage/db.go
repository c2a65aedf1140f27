// Package storage implements the SQLite-backed persistence the Query
// Engine and MCP session layer depend on: the result cache (spec §4.8),
// the fingerprint table (spec §4.7), and session records (spec §4.10).
// Grounded on the teacher's own internal/storage/db.go connection and
// migration discipline, adapted from ".ckb/ckb.db" to a single
// ".repogenome/cache.db" file shared by all three concerns.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"repogenome/internal/capability"
	"repogenome/internal/rgerrors"
)

// DB wraps a SQLite connection with the transaction helper the rest of
// this package builds on.
type DB struct {
	conn   *sql.DB
	logger capability.Logger
	path   string
}

// Open opens or creates the database at dbPath (relative paths are
// resolved under repoRoot), applying the same performance/reliability
// pragmas the teacher sets for its own cache database.
func Open(repoRoot, dbPath string, logger capability.Logger) (*DB, error) {
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(repoRoot, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "creating cache directory", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "opening cache database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, rgerrors.Wrap(rgerrors.IoError, "setting cache pragma", err)
		}
	}

	db := &DB{conn: conn, logger: logger, path: dbPath}
	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "beginning transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && db.logger != nil {
			db.logger.Error("rollback failed", map[string]interface{}{"error": rbErr.Error(), "cause": err.Error()})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "committing transaction", err)
	}
	return nil
}

func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}
