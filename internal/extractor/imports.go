package extractor

import (
	"path"
	"strings"

	"repogenome/internal/analyzer"
	"repogenome/internal/genome"
)

// ResolveImports turns each FileAnalysis's raw Imports into `imports`
// edges: an import that resolves to a file present in the scan becomes an
// edge to that file's NodeId, otherwise it becomes an edge to a virtual
// `ext:` node (spec §3 "NodeId convention" / edge closure invariant).
func ResolveImports(files []*analyzer.FileAnalysis) {
	knownFiles := make(map[string]genome.NodeId, len(files))
	for _, fa := range files {
		knownFiles[normalizeImportKey(fa.File)] = genome.FileNodeId(fa.File)
	}

	for _, fa := range files {
		from := genome.FileNodeId(fa.File)
		for _, imp := range fa.Imports {
			if target, ok := resolveLocal(fa.File, imp, knownFiles); ok {
				fa.Edges = append(fa.Edges, genome.Edge{From: from, To: target, Type: genome.EdgeImports})
				continue
			}
			fa.Edges = append(fa.Edges, genome.Edge{From: from, To: genome.ExternalNodeId(imp), Type: genome.EdgeImports})
		}
	}
}

// resolveLocal tries to match a raw import string against a file already
// discovered in this scan, either as a relative path from the importing
// file or as a bare module-style path from the repository root.
func resolveLocal(fromFile, imp string, known map[string]genome.NodeId) (genome.NodeId, bool) {
	imp = strings.TrimSuffix(imp, "/")
	if imp == "" {
		return "", false
	}

	candidates := []string{imp}
	if strings.HasPrefix(imp, ".") {
		joined := path.Join(path.Dir(fromFile), imp)
		candidates = append(candidates, joined)
	}

	for _, c := range candidates {
		for _, ext := range []string{"", ".go", ".py", ".js", ".ts", ".jsx", ".tsx"} {
			key := normalizeImportKey(c + ext)
			if id, ok := known[key]; ok {
				return id, true
			}
			indexKey := normalizeImportKey(path.Join(c, "index"+ext))
			if id, ok := known[indexKey]; ok {
				return id, true
			}
		}
	}
	return "", false
}

func normalizeImportKey(p string) string {
	return strings.TrimPrefix(path.Clean(p), "./")
}
