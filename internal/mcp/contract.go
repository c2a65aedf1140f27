package mcp

import (
	"encoding/json"

	"repogenome/internal/rgerrors"
	"repogenome/internal/storage"
)

// Contract state values (spec §4.10 "Enforce the Agent Contract").
// Extends storage.Session's documented {"clean","impact_required",
// "violated"} set with "unloaded", the state every new session starts
// in before it has read the current/summary resource.
const (
	StateUnloaded       = "unloaded"
	StateClean          = "clean"
	StateImpactRequired = "impact_required"
	StateViolated       = "violated"
)

// exemptTools may run in any contract state — the only two ways out of a
// stuck session (spec §4.10, grounded on
// original_source/repogenome/mcp/contract.py's
// enforce_contract_middleware, which special-cases exactly these two).
var exemptTools = map[string]bool{"scan": true, "validate": true}

// Contract enforces the pre-edit-impact / post-edit-update session
// discipline over storage.SessionStore-backed records.
type Contract struct {
	store *storage.SessionStore
}

// NewContract returns a Contract backed by store.
func NewContract(store *storage.SessionStore) *Contract {
	return &Contract{store: store}
}

// Ensure returns the session record for id, creating one in state
// "unloaded" if this is the session's first message.
func (c *Contract) Ensure(sessionID string) (*storage.Session, error) {
	sess, err := c.store.Get(sessionID)
	if err == nil {
		return sess, nil
	}
	if rgErr, ok := err.(*rgerrors.Error); !ok || rgErr.Code != rgerrors.NotFound {
		return nil, err
	}
	sess, err = c.store.Create(sessionID)
	if err != nil {
		return nil, err
	}
	sess.ContractState = StateUnloaded
	if err := c.store.Update(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Enforce checks whether toolName may run for sess, returning a
// ContractViolation error describing the fix when it may not.
func (c *Contract) Enforce(toolName string, sess *storage.Session) *rgerrors.Error {
	if exemptTools[toolName] {
		return nil
	}

	if sess.ContractState == StateUnloaded {
		return rgerrors.New(rgerrors.ContractViolation, "genome not loaded for this session").
			WithHint("read resource current", "call resources/read on \"current\" or \"summary\" before any tool")
	}

	if sess.ContractState == StateViolated {
		return rgerrors.New(rgerrors.ContractViolation, "last validate() failed; only scan and validate are permitted").
			WithHint("validate", "run validate and resolve the reported violations")
	}

	if sess.PendingUpdate && toolName != "impact" && toolName != "update" {
		return rgerrors.New(rgerrors.ContractViolation, "an impact-checked edit is pending update()").
			WithHint("update", "call update with a reason, or re-run validate, before further tool calls")
	}

	if toolName == "update" && sess.LastImpact == "" {
		return rgerrors.New(rgerrors.ContractViolation, "impact was not checked before this edit").
			WithHint("impact", "call impact with the affected node ids before update")
	}

	return nil
}

// MarkLoaded records that the session has read a genome resource.
func (c *Contract) MarkLoaded(sess *storage.Session) error {
	if sess.ContractState == StateUnloaded {
		sess.ContractState = StateClean
	}
	return c.store.Update(sess)
}

// RecordImpact stores result as the session's last impact check and
// arms the pending-update gate for subsequent tool calls.
func (c *Contract) RecordImpact(sess *storage.Session, result interface{}) error {
	data, err := json.Marshal(result)
	if err != nil {
		return rgerrors.Wrap(rgerrors.IoError, "encoding impact result", err)
	}
	sess.LastImpact = string(data)
	sess.PendingUpdate = true
	return c.store.Update(sess)
}

// RecordUpdate clears the pending-update gate after a successful update().
func (c *Contract) RecordUpdate(sess *storage.Session) error {
	sess.PendingUpdate = false
	sess.LastImpact = ""
	if sess.ContractState != StateViolated {
		sess.ContractState = StateClean
	}
	return c.store.Update(sess)
}

// RecordValidation stores the outcome of validate(), moving the session
// into "violated" on failure and clearing the pending-update gate on
// success (spec §4.10: "a fresh validate" is one of the two ways to
// clear a pending update, alongside update()).
func (c *Contract) RecordValidation(sess *storage.Session, ok bool) error {
	if ok {
		sess.ContractState = StateClean
		sess.PendingUpdate = false
	} else {
		sess.ContractState = StateViolated
	}
	return c.store.Update(sess)
}

// Cite appends id to the session's citation trail (SUPPLEMENTED FEATURES
// #3, grounded on contract.py's add_citation/get_citations).
func (c *Contract) Cite(sess *storage.Session, id string) error {
	sess.Citations = append(sess.Citations, id)
	if len(sess.Citations) > 50 {
		sess.Citations = sess.Citations[len(sess.Citations)-50:]
	}
	return c.store.Update(sess)
}
