// Context Assembler persistence: session memory, context version decision
// traces, and per-context feedback counters (spec §4.9). Grounded on the
// same key-value repository shape FingerprintStore and SessionStore use.
package storage

import (
	"database/sql"
	"time"

	"repogenome/internal/rgerrors"
)

// SessionMemoryStore persists client-supplied session state (facts, pinned
// ids) that build_context consults when a session_id is supplied.
type SessionMemoryStore struct {
	db *DB
}

// NewSessionMemoryStore returns a SessionMemoryStore backed by db.
func NewSessionMemoryStore(db *DB) *SessionMemoryStore {
	return &SessionMemoryStore{db: db}
}

// Set stores raw JSON state under sessionID, overwriting any prior value.
func (s *SessionMemoryStore) Set(sessionID string, stateJSON string) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO context_sessions (session_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at
	`, sessionID, stateJSON, now)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "storing session memory", err)
	}
	return nil
}

// Get returns the raw JSON state for sessionID, or ("", false, nil) if none exists.
func (s *SessionMemoryStore) Get(sessionID string) (string, bool, error) {
	var stateJSON string
	err := s.db.QueryRow(`SELECT state FROM context_sessions WHERE session_id = ?`, sessionID).Scan(&stateJSON)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, rgerrors.Wrap(rgerrors.IoError, "loading session memory", err)
	}
	return stateJSON, true, nil
}

// ContextVersionStore persists the Context Assembler's decision trace under
// a ContextVersion id, so explain_context can replay it later.
type ContextVersionStore struct {
	db *DB
}

// NewContextVersionStore returns a ContextVersionStore backed by db.
func NewContextVersionStore(db *DB) *ContextVersionStore {
	return &ContextVersionStore{db: db}
}

// Save records the decision trace (as JSON) for contextID.
func (s *ContextVersionStore) Save(contextID, goal, traceJSON string) error {
	_, err := s.db.Exec(`
		INSERT INTO context_versions (context_id, goal, trace, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(context_id) DO UPDATE SET goal = excluded.goal, trace = excluded.trace
	`, contextID, goal, traceJSON, time.Now().Format(time.RFC3339))
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "storing context version", err)
	}
	return nil
}

// Get returns the trace JSON recorded for contextID.
func (s *ContextVersionStore) Get(contextID string) (goal, traceJSON string, found bool, err error) {
	dbErr := s.db.QueryRow(`SELECT goal, trace FROM context_versions WHERE context_id = ?`, contextID).Scan(&goal, &traceJSON)
	if dbErr == sql.ErrNoRows {
		return "", "", false, nil
	}
	if dbErr != nil {
		return "", "", false, rgerrors.Wrap(rgerrors.IoError, "loading context version", dbErr)
	}
	return goal, traceJSON, true, nil
}

// FeedbackStore tracks hit/miss counters per context id, updated whenever a
// later query references one of that context's node ids.
type FeedbackStore struct {
	db *DB
}

// NewFeedbackStore returns a FeedbackStore backed by db.
func NewFeedbackStore(db *DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// RecordHit increments the hit counter for contextID.
func (s *FeedbackStore) RecordHit(contextID string) error {
	return s.bump(contextID, 1, 0)
}

// RecordMiss increments the miss counter for contextID.
func (s *FeedbackStore) RecordMiss(contextID string) error {
	return s.bump(contextID, 0, 1)
}

func (s *FeedbackStore) bump(contextID string, hits, misses int) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO context_feedback (context_id, hits, misses, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(context_id) DO UPDATE SET
			hits = hits + excluded.hits,
			misses = misses + excluded.misses,
			updated_at = excluded.updated_at
	`, contextID, hits, misses, now)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "updating context feedback", err)
	}
	return nil
}

// Counters is the hit/miss snapshot get_context_feedback returns.
type Counters struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// Get returns the current counters for contextID, zero-valued if none exist yet.
func (s *FeedbackStore) Get(contextID string) (Counters, error) {
	var c Counters
	err := s.db.QueryRow(`SELECT hits, misses FROM context_feedback WHERE context_id = ?`, contextID).Scan(&c.Hits, &c.Misses)
	if err == sql.ErrNoRows {
		return Counters{}, nil
	}
	if err != nil {
		return Counters{}, rgerrors.Wrap(rgerrors.IoError, "loading context feedback", err)
	}
	return c, nil
}
