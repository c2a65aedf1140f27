package query

import (
	"os"
	"testing"

	"repogenome/internal/genome"
	"repogenome/internal/logging"
	"repogenome/internal/storage"
)

func openTestCache(t *testing.T) *storage.Cache {
	t.Helper()
	dir, err := os.MkdirTemp("", "repogenome-query-test")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	db, err := storage.Open(dir, "cache.db", logger)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return storage.NewCache(db, 10)
}

func TestEngineFilterCachesResult(t *testing.T) {
	g := sampleGenome()
	g.Metadata.RepoHash = "hash-1"
	cache := openTestCache(t)
	e := New(g, cache, nil)

	q := FilterQuery{Predicate: Predicate{Field: "type", Op: OpEq, Value: "function"}}

	first, err := e.Filter(q)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if first.Total != 2 {
		t.Fatalf("expected total=2, got %d", first.Total)
	}

	// Mutate the underlying genome in a way Filter would notice if it
	// weren't served from cache, to prove the second call hit the cache.
	e.Genome.Nodes["internal/extra.Extra"] = genome.Node{Type: genome.NodeFunction, Language: "go"}

	second, err := e.Filter(q)
	if err != nil {
		t.Fatalf("Filter (cached): %v", err)
	}
	if second.Total != first.Total {
		t.Fatalf("expected cached result total=%d, got %d", first.Total, second.Total)
	}
}

func TestEngineFilterMissesCacheAfterRepoHashChanges(t *testing.T) {
	g := sampleGenome()
	g.Metadata.RepoHash = "hash-1"
	cache := openTestCache(t)
	e := New(g, cache, nil)

	q := FilterQuery{Predicate: Predicate{Field: "type", Op: OpEq, Value: "function"}}
	if _, err := e.Filter(q); err != nil {
		t.Fatalf("Filter: %v", err)
	}

	// A real Genome mutation bumps RepoHash; the new node should now be
	// visible instead of a result cached under the old repo state.
	e.Genome.Nodes["internal/extra.Extra"] = genome.Node{Type: genome.NodeFunction, Language: "go"}
	e.Genome.Metadata.RepoHash = "hash-2"

	second, err := e.Filter(q)
	if err != nil {
		t.Fatalf("Filter after mutation: %v", err)
	}
	if second.Total != 3 {
		t.Fatalf("expected the new node to be visible once repo_hash changes, got total=%d", second.Total)
	}
}

func TestEngineFilterByText(t *testing.T) {
	g := sampleGenome()
	g.Metadata.RepoHash = "hash-2"
	e := New(g, nil, nil)

	res, err := e.Filter(FilterQuery{Text: "concept:auth"})
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected total=2, got %d", res.Total)
	}
}

func TestEngineDependencies(t *testing.T) {
	g := chainGenome()
	g.Metadata.RepoHash = "hash-3"
	e := New(g, nil, nil)

	entries, err := e.Dependencies("a", DirectionOutgoing, 0)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}
