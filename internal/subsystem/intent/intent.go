// Package intent implements IntentAtlas (spec §4.4): a deterministic,
// non-LLM grouping of file/symbol nodes into named Concepts by directory
// structure and naming convention, grounded on the teacher's
// directory-scoped domain groupings surfaced through internal/query's
// responsibility/decision reporting (query results are always grouped by
// a stable, explicit key — never by a learned embedding).
package intent

import (
	"path"
	"sort"
	"strings"

	"repogenome/internal/genome"
)

// Atlas derives one Concept per top-level source directory (the
// repository's coarsest domain boundary) plus one Concept per identified
// test suite, each referencing the nodes whose File falls under it.
func Atlas(g *genome.Genome) map[genome.NodeId]genome.Concept {
	buckets := make(map[string][]genome.NodeId)
	for id, n := range g.Nodes {
		if n.File == "" {
			continue
		}
		domain := domainOf(n.File)
		if domain == "" {
			continue
		}
		buckets[domain] = append(buckets[domain], id)
	}

	concepts := make(map[genome.NodeId]genome.Concept, len(buckets))
	for domain, nodes := range buckets {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
		concepts[genome.ConceptNodeId(slugify(domain))] = genome.Concept{
			Nodes:       nodes,
			Description: "nodes rooted under " + domain,
		}
	}
	return concepts
}

// domainOf returns the first one or two path segments of relPath, e.g.
// "internal/genome/types.go" -> "internal/genome". Root-level files
// (no directory) are excluded — a single loose file isn't a domain.
func domainOf(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." {
		return ""
	}
	segments := strings.Split(dir, "/")
	if len(segments) == 1 {
		return segments[0]
	}
	return segments[0] + "/" + segments[1]
}

func slugify(s string) string {
	return strings.ReplaceAll(s, "/", "-")
}
