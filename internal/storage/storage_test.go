package storage

import (
	"os"
	"testing"
	"time"

	"repogenome/internal/logging"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir, err := os.MkdirTemp("", "repogenome-storage-test")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	db, err := Open(dir, "cache.db", logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCacheSetGetAndExpiry(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db, 10)

	if err := cache.Set("k1", "hashA", []byte("hello"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := cache.Get("k1", "hashA")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(v) != "hello" {
		t.Fatalf("unexpected value: %q", v)
	}

	if err := cache.Set("k2", "hashA", []byte("bye"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, ok, err = cache.Get("k2", "hashA")
	if err != nil || ok {
		t.Fatalf("expected expired entry to miss, got ok=%v err=%v", ok, err)
	}
}

func TestCacheCompressesLargeValues(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db, 10)

	big := make([]byte, compressThreshold+1)
	for i := range big {
		big[i] = 'x'
	}
	if err := cache.Set("big", "hashA", big, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := cache.Get("big", "hashA")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(v) != len(big) {
		t.Fatalf("expected round-tripped length %d, got %d", len(big), len(v))
	}
}

func TestCacheEvictsOverflow(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db, 2)

	for _, k := range []string{"a", "b", "c"} {
		if err := cache.Set(k, "hashA", []byte(k), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM query_cache`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count > 2 {
		t.Fatalf("expected eviction to cap at 2 entries, got %d", count)
	}
}

func TestCacheInvalidateAllDropsEveryEntry(t *testing.T) {
	db := openTestDB(t)
	cache := NewCache(db, 10)

	for _, k := range []string{"a", "b", "c"} {
		if err := cache.Set(k, "hashA", []byte(k), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := cache.InvalidateAll(); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, ok, err := cache.Get(k, "hashA"); err != nil || ok {
			t.Fatalf("expected %s to be invalidated, got ok=%v err=%v", k, ok, err)
		}
	}
}

func TestFingerprintStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewFingerprintStore(db, "/repo")

	table := map[string]string{"a.go": "hash1", "b.go": "hash2"}
	if err := store.Save(table); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded["a.go"] != "hash1" {
		t.Fatalf("unexpected fingerprints: %v", loaded)
	}
}

func TestSessionStoreCreateGetUpdate(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)

	sess, err := store.Create("sess-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.ContractState != "clean" {
		t.Fatalf("expected clean initial state, got %q", sess.ContractState)
	}

	sess.PendingUpdate = true
	sess.ContractState = "impact_required"
	sess.Citations = []string{"pkg/a.go"}
	if err := store.Update(sess); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := store.Get("sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !loaded.PendingUpdate || loaded.ContractState != "impact_required" || len(loaded.Citations) != 1 {
		t.Fatalf("unexpected session after update: %+v", loaded)
	}
}
