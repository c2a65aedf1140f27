package incremental

import (
	"context"
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"

	"repogenome/internal/capability"
	"repogenome/internal/classify"
	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// DetectChanges computes a stable per-file fingerprint (spec §4.7 step
// 1: "a stable hash of path+content") for every included file under
// root, and diffs it against prior's fingerprint table to produce the
// added/modified/removed sets. It returns the freshly computed table so
// the caller can persist it into the next Genome's metadata.
func DetectChanges(ctx context.Context, fs capability.FilesystemSource, root string, ignore []string, prior *genome.Genome) (ChangeSet, map[string]string, error) {
	fresh := make(map[string]string)

	err := fs.Walk(ctx, root, func(fi capability.FileInfo) error {
		if classify.IsIgnored(fi.RelPath, ignore) {
			return nil
		}
		content, err := fs.ReadFile(ctx, fi.RelPath)
		if err != nil {
			return err
		}
		fresh[fi.RelPath] = fingerprint(fi.RelPath, content)
		return nil
	})
	if err != nil {
		return ChangeSet{}, nil, rgerrors.Wrap(rgerrors.IoError, "walking repository for change detection", err)
	}

	old := map[string]string{}
	if prior != nil {
		old = prior.Metadata.Fingerprints
	}

	var cs ChangeSet
	for path, hash := range fresh {
		oldHash, existed := old[path]
		switch {
		case !existed:
			cs.Added = append(cs.Added, path)
		case oldHash != hash:
			cs.Modified = append(cs.Modified, path)
		}
	}
	for path := range old {
		if _, stillThere := fresh[path]; !stillThere {
			cs.Removed = append(cs.Removed, path)
		}
	}
	sort.Strings(cs.Added)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Removed)

	return cs, fresh, nil
}

// fingerprint hashes path+content, per spec §4.7's "stable hash of
// path+content" — the path is included so a rename or move is visible
// as a remove+add rather than a silent no-op.
func fingerprint(path string, content []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
