package context

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"

	"repogenome/internal/rgerrors"
	"repogenome/internal/storage"
)

// Recorder persists a Trace under a generated ContextVersion id and
// answers explain_context (spec §4.9 step 6). Grounded on the original's
// generate_fingerprint (sha256 of the sorted-keys JSON payload).
type Recorder struct {
	store *storage.ContextVersionStore
}

// NewRecorder returns a Recorder backed by store.
func NewRecorder(store *storage.ContextVersionStore) *Recorder {
	return &Recorder{store: store}
}

// Record generates a new ContextVersion id, persists trace under it, and
// returns the id.
func (r *Recorder) Record(trace Trace) (string, error) {
	contextID := uuid.NewString()
	trace.ContextId = contextID

	encoded, err := json.Marshal(trace)
	if err != nil {
		return "", rgerrors.Wrap(rgerrors.InvalidInput, "encoding context trace", err)
	}
	if err := r.store.Save(contextID, trace.Goal, string(encoded)); err != nil {
		return "", err
	}
	return contextID, nil
}

// Explain returns the decision trace recorded for contextID.
func (r *Recorder) Explain(contextID string) (Trace, error) {
	_, traceJSON, found, err := r.store.Get(contextID)
	if err != nil {
		return Trace{}, err
	}
	if !found {
		return Trace{}, rgerrors.New(rgerrors.NotFound, "unknown context_id: "+contextID)
	}
	var trace Trace
	if err := json.Unmarshal([]byte(traceJSON), &trace); err != nil {
		return Trace{}, rgerrors.Wrap(rgerrors.IoError, "decoding context trace", err)
	}
	return trace, nil
}

// fingerprint hashes a built Context's stable, json-serializable shape so
// identical inputs (goal, budget, must_include, exclude, Genome state)
// produce the same fingerprint, for anti-drift detection on the client
// side. Mirrors the original's generate_fingerprint.
func fingerprint(v interface{}) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return "sha256:" + hex.EncodeToString(sum[:])
}
