package fsops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"repogenome/internal/capability"
)

func TestWalkSkipsIgnoredDirs(t *testing.T) {
	dir := t.TempDir()
	must(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))
	must(t, os.WriteFile(filepath.Join(dir, "vendor", "skip.go"), []byte("package v"), 0o644))
	must(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
	must(t, os.WriteFile(filepath.Join(dir, "pkg", "keep.go"), []byte("package p"), 0o644))

	fs := New(dir)
	var seen []string
	err := fs.Walk(context.Background(), ".", func(fi capability.FileInfo) error {
		seen = append(seen, fi.RelPath)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(seen) != 1 || seen[0] != "pkg/keep.go" {
		t.Fatalf("expected only pkg/keep.go, got %v", seen)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	must(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	fs := New(dir)
	data, err := fs.ReadFile(context.Background(), "a.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q", data)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
