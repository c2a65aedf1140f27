// Package flow implements FlowWeaver (spec §4.4): it derives advisory
// execution paths by walking `calls` edges outward from entry points,
// grounded on the teacher's edge-weighted graph walk in
// internal/graph/builder.go (BuildFromCallGraph), generalized from a
// weighted dependency graph to bounded-depth path enumeration.
package flow

import (
	"sort"
	"strings"

	"repogenome/internal/genome"
)

// MaxDepth bounds how far a flow path may extend from its entry point,
// keeping paths advisory-sized rather than exhaustive call trees.
const MaxDepth = 12

// Weave derives Flow entries for every entry point in g. An entry point
// is a public function or method with no incoming `calls` edge, per
// spec §4.4 ("do_not_touch"-adjacent heuristic reused from Summary
// computation).
func Weave(g *genome.Genome) []genome.Flow {
	idx := genome.BuildEdgeIndex(g)
	entries := findEntryPoints(g, idx)

	flows := make([]genome.Flow, 0, len(entries))
	for _, entry := range entries {
		path := walk(idx, entry, MaxDepth)
		flows = append(flows, genome.Flow{
			Entry:       entry,
			Path:        path,
			SideEffects: sideEffects(g, path),
			Confidence:  confidence(len(path)),
		})
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Entry < flows[j].Entry })
	return flows
}

// findEntryPoints selects public functions with no incoming `calls`
// edge, functions literally named `main`/`__main__` regardless of
// visibility, and file nodes that call a function at module scope (the
// shape of Python's `if __name__ == "__main__":` guard). Every symbol
// node always carries an incoming `defines` edge from its file (spec §3
// invariant), so only `calls` edges count toward "nothing in the graph
// calls this" — counting every edge type would make every symbol look
// defined-into and never an entry point.
func findEntryPoints(g *genome.Genome, idx *genome.EdgeIndex) []genome.NodeId {
	var entries []genome.NodeId
	for id, n := range g.Nodes {
		switch n.Type {
		case genome.NodeFunction:
			if isMainSymbol(id) || (n.Visibility == genome.VisibilityPublic && !hasIncomingCall(idx, id)) {
				entries = append(entries, id)
			}
		case genome.NodeFile:
			if hasOutgoingCall(idx, id) {
				entries = append(entries, id)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i] < entries[j] })
	return entries
}

// isMainSymbol reports whether id names a `main`/`__main__` symbol,
// stripping the file-stem prefix genome.SymbolNodeId adds.
func isMainSymbol(id genome.NodeId) bool {
	s := string(id)
	name := s
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		name = s[i+1:]
	}
	return name == "main" || name == "__main__"
}

func hasOutgoingCall(idx *genome.EdgeIndex, id genome.NodeId) bool {
	for _, e := range idx.Outgoing(id) {
		if e.Type == genome.EdgeCalls {
			return true
		}
	}
	return false
}

func hasIncomingCall(idx *genome.EdgeIndex, id genome.NodeId) bool {
	for _, e := range idx.Incoming(id) {
		if e.Type == genome.EdgeCalls {
			return true
		}
	}
	return false
}

func walk(idx *genome.EdgeIndex, start genome.NodeId, maxDepth int) []genome.NodeId {
	visited := map[genome.NodeId]bool{start: true}
	path := []genome.NodeId{start}
	current := start
	for depth := 0; depth < maxDepth; depth++ {
		next := firstUnvisitedCall(idx, current, visited)
		if next == "" {
			break
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}
	return path
}

func firstUnvisitedCall(idx *genome.EdgeIndex, from genome.NodeId, visited map[genome.NodeId]bool) genome.NodeId {
	edges := idx.Outgoing(from)
	sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
	for _, e := range edges {
		if e.Type != genome.EdgeCalls {
			continue
		}
		if !visited[e.To] {
			return e.To
		}
	}
	return ""
}

// sideEffects reports which mutation/emission edges are reachable from
// any node on the path, as file-relative hints rather than a full trace.
func sideEffects(g *genome.Genome, path []genome.NodeId) []string {
	idx := genome.BuildEdgeIndex(g)
	seen := make(map[string]bool)
	var out []string
	for _, id := range path {
		for _, e := range idx.Outgoing(id) {
			if e.Type != genome.EdgeMutates && e.Type != genome.EdgeEmits {
				continue
			}
			key := string(e.Type) + ":" + string(e.To)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// confidence decays with path length: a one-hop flow is well grounded, a
// maximum-depth flow is closer to a guess.
func confidence(pathLen int) float64 {
	if pathLen <= 1 {
		return 0.5
	}
	c := 1.0 - float64(pathLen-1)/float64(MaxDepth)
	if c < 0.1 {
		return 0.1
	}
	return c
}
