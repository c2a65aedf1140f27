package context

import (
	"encoding/json"

	"repogenome/internal/rgerrors"
	"repogenome/internal/storage"
)

// SessionMemory wraps storage.SessionMemoryStore with typed get/set for
// client-provided facts and pinned ids (spec §4.9 "Sessions":
// set_context_session/build_context consults session state).
type SessionMemory struct {
	store *storage.SessionMemoryStore
}

// NewSessionMemory returns a SessionMemory backed by store.
func NewSessionMemory(store *storage.SessionMemoryStore) *SessionMemory {
	return &SessionMemory{store: store}
}

// State is client-supplied memory persisted across build_context calls.
type State struct {
	Facts     map[string]string `json:"facts,omitempty"`
	PinnedIds []string          `json:"pinned_ids,omitempty"`
}

// Set stores state under sessionID.
func (m *SessionMemory) Set(sessionID string, state State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return rgerrors.Wrap(rgerrors.InvalidInput, "encoding session state", err)
	}
	return m.store.Set(sessionID, string(encoded))
}

// Get returns the state stored for sessionID, or a zero-value State if none exists.
func (m *SessionMemory) Get(sessionID string) (State, error) {
	raw, ok, err := m.store.Get(sessionID)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, nil
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, rgerrors.Wrap(rgerrors.IoError, "decoding session state", err)
	}
	return state, nil
}
