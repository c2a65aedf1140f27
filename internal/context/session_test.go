package context

import (
	"os"
	"testing"

	"repogenome/internal/logging"
	"repogenome/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	dir, err := os.MkdirTemp("", "repogenome-context-test")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	db, err := storage.Open(dir, "context.db", logger)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionMemorySetAndGet(t *testing.T) {
	db := openTestDB(t)
	mem := NewSessionMemory(storage.NewSessionMemoryStore(db))

	state := State{Facts: map[string]string{"framework": "echo"}, PinnedIds: []string{"internal/auth/login.Login"}}
	if err := mem.Set("sess-1", state); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := mem.Get("sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Facts["framework"] != "echo" || len(got.PinnedIds) != 1 {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestSessionMemoryGetMissing(t *testing.T) {
	db := openTestDB(t)
	mem := NewSessionMemory(storage.NewSessionMemoryStore(db))

	got, err := mem.Get("no-such-session")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Facts != nil || got.PinnedIds != nil {
		t.Fatalf("expected zero-value state, got %+v", got)
	}
}
