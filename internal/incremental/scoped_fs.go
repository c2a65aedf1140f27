package incremental

import (
	"context"

	"repogenome/internal/capability"
)

// scopedFS restricts a FilesystemSource's Walk to a fixed set of paths,
// so the extractor's bounded re-analysis (spec §4.7 step 3) only touches
// the files an incremental update actually changed instead of the whole
// checkout.
type scopedFS struct {
	inner capability.FilesystemSource
	paths map[string]bool
}

func newScopedFS(inner capability.FilesystemSource, paths []string) *scopedFS {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return &scopedFS{inner: inner, paths: set}
}

func (s *scopedFS) Walk(ctx context.Context, root string, fn func(capability.FileInfo) error) error {
	return s.inner.Walk(ctx, root, func(fi capability.FileInfo) error {
		if !s.paths[fi.RelPath] {
			return nil
		}
		return fn(fi)
	})
}

func (s *scopedFS) ReadFile(ctx context.Context, relPath string) ([]byte, error) {
	return s.inner.ReadFile(ctx, relPath)
}
