// Package fsops implements capability.FilesystemSource against the local
// operating-system filesystem, grounded on the teacher's repository walk
// used ahead of SCIP/tree-sitter extraction.
package fsops

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"repogenome/internal/capability"
	"repogenome/internal/rgerrors"
)

// Local is a capability.FilesystemSource rooted at a real directory.
type Local struct {
	Root string
}

// New returns a Local filesystem source rooted at root.
func New(root string) *Local {
	return &Local{Root: root}
}

// Walk enumerates every regular file under root (relative to l.Root),
// skipping the standard VCS and dependency directories that never carry
// analyzable source.
func (l *Local) Walk(ctx context.Context, root string, fn func(capability.FileInfo) error) error {
	base := filepath.Join(l.Root, root)
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		return fn(capability.FileInfo{
			RelPath: filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	})
}

// ReadFile returns the contents of relPath under l.Root.
func (l *Local) ReadFile(ctx context.Context, relPath string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	data, err := os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "reading "+relPath, err)
	}
	return data, nil
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", ".repogenome", "node_modules", "vendor", "dist", "build", ".venv", "__pycache__":
		return true
	}
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
