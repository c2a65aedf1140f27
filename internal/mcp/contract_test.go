package mcp

import (
	"path/filepath"
	"testing"

	"repogenome/internal/storage"
)

func testContract(t *testing.T) (*Contract, *storage.Session) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(dir, filepath.Join(dir, "cache.db"), nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	c := NewContract(storage.NewSessionStore(db))
	sess, err := c.Ensure("c1")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	return c, sess
}

func TestContractBlocksUnloadedExceptScanAndValidate(t *testing.T) {
	c, sess := testContract(t)

	if v := c.Enforce("scan", sess); v != nil {
		t.Fatalf("scan should be exempt from the unloaded check: %v", v)
	}
	if v := c.Enforce("validate", sess); v != nil {
		t.Fatalf("validate should be exempt from the unloaded check: %v", v)
	}
	if v := c.Enforce("get_node", sess); v == nil {
		t.Fatalf("expected get_node to be blocked before the genome is loaded")
	}
}

func TestContractViolatedStateOnlyAllowsValidateAndScan(t *testing.T) {
	c, sess := testContract(t)
	if err := c.MarkLoaded(sess); err != nil {
		t.Fatalf("MarkLoaded: %v", err)
	}
	if err := c.RecordValidation(sess, false); err != nil {
		t.Fatalf("RecordValidation: %v", err)
	}

	if v := c.Enforce("stats", sess); v == nil {
		t.Fatalf("expected stats to be blocked in the violated state")
	}
	if v := c.Enforce("validate", sess); v != nil {
		t.Fatalf("validate must remain callable in the violated state: %v", v)
	}

	if err := c.RecordValidation(sess, true); err != nil {
		t.Fatalf("RecordValidation: %v", err)
	}
	if v := c.Enforce("stats", sess); v != nil {
		t.Fatalf("expected stats to be allowed again after a clean validate: %v", v)
	}
}

func TestContractUpdateRequiresPriorImpact(t *testing.T) {
	c, sess := testContract(t)
	if err := c.MarkLoaded(sess); err != nil {
		t.Fatalf("MarkLoaded: %v", err)
	}

	if v := c.Enforce("update", sess); v == nil {
		t.Fatalf("expected update to require a prior impact() call")
	}

	if err := c.RecordImpact(sess, map[string]int{"affected": 3}); err != nil {
		t.Fatalf("RecordImpact: %v", err)
	}
	if v := c.Enforce("update", sess); v != nil {
		t.Fatalf("expected update to be allowed after impact(): %v", v)
	}

	if err := c.RecordUpdate(sess); err != nil {
		t.Fatalf("RecordUpdate: %v", err)
	}
	if sess.PendingUpdate {
		t.Fatalf("expected RecordUpdate to clear the pending-update gate")
	}
}

func TestContractCiteTrimsToFifty(t *testing.T) {
	c, sess := testContract(t)
	for i := 0; i < 60; i++ {
		if err := c.Cite(sess, "node"); err != nil {
			t.Fatalf("Cite: %v", err)
		}
	}
	if len(sess.Citations) != 50 {
		t.Fatalf("expected citation trail capped at 50, got %d", len(sess.Citations))
	}
}
