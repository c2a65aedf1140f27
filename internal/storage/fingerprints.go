// Fingerprints backs the Incremental Coordinator's change detection
// (spec §4.7 step 1): a stable hash of path+content per included file,
// compared across runs to produce added/modified/removed sets. Grounded
// on the teacher's own key-value repository pattern
// (internal/storage/repositories.go).
package storage

import (
	"database/sql"

	"repogenome/internal/rgerrors"
)

// FingerprintStore persists the per-file content-hash table used to
// detect changes between an incremental run and the prior Genome.
type FingerprintStore struct {
	db       *DB
	repoRoot string
}

// NewFingerprintStore returns a store scoped to repoRoot, allowing one
// cache database to serve multiple repositories.
func NewFingerprintStore(db *DB, repoRoot string) *FingerprintStore {
	return &FingerprintStore{db: db, repoRoot: repoRoot}
}

// Load returns the full path -> hash table recorded for repoRoot.
func (s *FingerprintStore) Load() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT file_path, hash FROM fingerprints WHERE repo_root = ?`, s.repoRoot)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "loading fingerprints", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, rgerrors.Wrap(rgerrors.IoError, "scanning fingerprint row", err)
		}
		out[path] = hash
	}
	return out, rows.Err()
}

// Save replaces the fingerprint table for repoRoot with table, atomically.
func (s *FingerprintStore) Save(table map[string]string) error {
	err := s.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM fingerprints WHERE repo_root = ?`, s.repoRoot); err != nil {
			return err
		}
		stmt, err := tx.Prepare(`INSERT INTO fingerprints (repo_root, file_path, hash) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for path, hash := range table {
			if _, err := stmt.Exec(s.repoRoot, path, hash); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "saving fingerprints", err)
	}
	return nil
}
