package incremental

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"repogenome/internal/capability/fsops"
	"repogenome/internal/genome"
	"repogenome/internal/merger"
)

func TestWatcherRunEmitsUpdateOnFileCreate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("Do"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	m := merger.New(merger.DefaultOptions())
	prior := genome.New()
	prior.Metadata.SchemaVersion = genome.CurrentSchemaVersion
	prior.Metadata.Fingerprints = map[string]string{}

	coord := &Coordinator{
		FS:       fsops.New(dir),
		Registry: newFakeRegistry(),
		Merger:   m,
		Root:     ".",
		Workers:  1,
	}

	w := NewWatcher(coord, dir, nil, nil, 50*time.Millisecond)

	updates := make(chan *genome.Genome, 1)
	w.OnUpdate = func(next *genome.Genome, cs ChangeSet) {
		select {
		case updates <- next:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, prior) }()

	// Give the watcher time to register its subscriptions before the
	// change lands, mirroring the teacher's own debounce tests waiting
	// out a fixed settle window rather than synchronizing on internals.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "b.go"), []byte("New"), 0o644); err != nil {
		t.Fatalf("write new file: %v", err)
	}

	select {
	case next := <-updates:
		if next == nil {
			t.Fatalf("expected non-nil updated genome")
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for watcher update")
	}

	cancel()
	<-done
}
