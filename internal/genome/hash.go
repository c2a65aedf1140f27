package genome

import (
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// ComputeRepoHash derives repo_hash (spec §3) from the per-file fingerprint
// table: a tree hash over each file's path and content fingerprint, sorted
// by path so the result is independent of walk order. Two scans of the
// same analyzed state produce the same repo_hash regardless of when either
// ran, unlike a working-copy timestamp.
func ComputeRepoHash(fingerprints map[string]string) string {
	paths := make([]string, 0, len(fingerprints))
	for path := range fingerprints {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	h, _ := blake2b.New256(nil)
	for _, path := range paths {
		h.Write([]byte(path))
		h.Write([]byte{0})
		h.Write([]byte(fingerprints[path]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
