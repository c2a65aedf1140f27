// Sessions backs the MCP session record (spec §4.10 / SUPPLEMENTED
// FEATURES): one row per client session tracking what Genome state the
// client last saw and whether the Agent Contract still holds. Grounded
// on the same key-value repository shape as FingerprintStore.
package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"repogenome/internal/rgerrors"
)

// Session is the persisted state of one MCP client session.
type Session struct {
	SessionID     string
	LoadedAt      time.Time
	LastImpact    string // JSON blob of the last impact() result, empty if none
	PendingUpdate bool
	ContractState string // "clean" | "impact_required" | "violated"
	Citations     []string
	UpdatedAt     time.Time
}

// SessionStore persists Session records.
type SessionStore struct {
	db *DB
}

// NewSessionStore returns a SessionStore backed by db.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a new session record with contract_state "clean".
func (s *SessionStore) Create(sessionID string) (*Session, error) {
	now := time.Now()
	sess := &Session{SessionID: sessionID, LoadedAt: now, ContractState: "clean", UpdatedAt: now}
	_, err := s.db.Exec(`
		INSERT INTO sessions (session_id, loaded_at, last_impact, pending_update, contract_state, citations, updated_at)
		VALUES (?, ?, '', 0, ?, '[]', ?)
	`, sess.SessionID, sess.LoadedAt.Format(time.RFC3339), sess.ContractState, sess.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "creating session", err)
	}
	return sess, nil
}

// Get returns the session record for id, or rgerrors.NotFound.
func (s *SessionStore) Get(sessionID string) (*Session, error) {
	var sess Session
	var loadedAt, updatedAt, citationsJSON string
	var pending int
	err := s.db.QueryRow(`
		SELECT session_id, loaded_at, last_impact, pending_update, contract_state, citations, updated_at
		FROM sessions WHERE session_id = ?
	`, sessionID).Scan(&sess.SessionID, &loadedAt, &sess.LastImpact, &pending, &sess.ContractState, &citationsJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, rgerrors.New(rgerrors.NotFound, "session not found").WithDetails(map[string]string{"session_id": sessionID})
	}
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "loading session", err)
	}
	sess.LoadedAt, _ = time.Parse(time.RFC3339, loadedAt)
	sess.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	sess.PendingUpdate = pending == 1
	json.Unmarshal([]byte(citationsJSON), &sess.Citations)
	return &sess, nil
}

// Update persists sess's mutable fields.
func (s *SessionStore) Update(sess *Session) error {
	citationsJSON, err := json.Marshal(sess.Citations)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "encoding session citations", err)
	}
	pending := 0
	if sess.PendingUpdate {
		pending = 1
	}
	_, err = s.db.Exec(`
		UPDATE sessions SET last_impact = ?, pending_update = ?, contract_state = ?, citations = ?, updated_at = ?
		WHERE session_id = ?
	`, sess.LastImpact, pending, sess.ContractState, string(citationsJSON), time.Now().Format(time.RFC3339), sess.SessionID)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "updating session", err)
	}
	return nil
}
