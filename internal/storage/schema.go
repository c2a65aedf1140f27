package storage

import "database/sql"

// initializeSchema creates every table this package owns. All statements
// are IF NOT EXISTS, so opening an existing database is a no-op — there
// is exactly one schema version so far, unlike the Genome's own
// versioned schema (spec §6).
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		statements := []string{
			`CREATE TABLE IF NOT EXISTS query_cache (
				cache_key    TEXT PRIMARY KEY,
				genome_hash  TEXT NOT NULL,
				value        BLOB NOT NULL,
				compressed   INTEGER NOT NULL DEFAULT 0,
				created_at   TEXT NOT NULL,
				expires_at   TEXT NOT NULL,
				last_used_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_query_cache_expires ON query_cache(expires_at)`,
			`CREATE INDEX IF NOT EXISTS idx_query_cache_last_used ON query_cache(last_used_at)`,

			`CREATE TABLE IF NOT EXISTS fingerprints (
				repo_root TEXT NOT NULL,
				file_path TEXT NOT NULL,
				hash      TEXT NOT NULL,
				PRIMARY KEY (repo_root, file_path)
			)`,

			`CREATE TABLE IF NOT EXISTS sessions (
				session_id       TEXT PRIMARY KEY,
				loaded_at        TEXT NOT NULL,
				last_impact      TEXT,
				pending_update   INTEGER NOT NULL DEFAULT 0,
				contract_state   TEXT NOT NULL,
				citations        TEXT NOT NULL DEFAULT '[]',
				updated_at       TEXT NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS context_sessions (
				session_id TEXT PRIMARY KEY,
				state      TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS context_versions (
				context_id TEXT PRIMARY KEY,
				goal       TEXT NOT NULL,
				trace      TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,

			`CREATE TABLE IF NOT EXISTS context_feedback (
				context_id TEXT PRIMARY KEY,
				hits       INTEGER NOT NULL DEFAULT 0,
				misses     INTEGER NOT NULL DEFAULT 0,
				updated_at TEXT NOT NULL
			)`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
