package incremental

import (
	"sort"

	"repogenome/internal/genome"
	"repogenome/internal/merger"
)

// ApplyDelta applies d to a copy of g in the fixed order spec §4.7 step 4
// mandates: node removes, then node replaces, then node adds; edges
// last. Single-owner sections are replaced wholesale when the delta
// carries a non-nil value for them. Criticality, risk and summary are
// then recomputed exactly as a fresh Merge would (via m.Recompute), since
// the delta invalidates all three. The apply is all-or-nothing: if the
// resulting Genome fails Validate, the original g is returned unchanged
// alongside the error.
func ApplyDelta(m *merger.Merger, g *genome.Genome, d GenomeDelta) (*genome.Genome, error) {
	next := clone(g)

	for _, id := range d.NodesRemove {
		delete(next.Nodes, id)
	}
	for id, n := range d.NodesReplace {
		next.Nodes[id] = n
	}
	for id, n := range d.NodesAdd {
		next.Nodes[id] = n
	}

	next.Edges = applyEdgeDelta(next.Edges, d.EdgesRemove, d.EdgesAdd)

	if d.Flows != nil {
		next.Flows = d.Flows
	}
	if d.Concepts != nil {
		next.Concepts = d.Concepts
	}
	if d.History != nil {
		next.History = d.History
	}
	if d.Contracts != nil {
		next.Contracts = d.Contracts
	}
	if d.Security != nil {
		next.Security = d.Security
	}

	recomputed, err := m.Recompute(next)
	if err != nil {
		return g, err
	}
	return recomputed, nil
}

func applyEdgeDelta(edges, remove, add []genome.Edge) []genome.Edge {
	removeKeys := make(map[string]bool, len(remove))
	for _, e := range remove {
		removeKeys[e.Key()] = true
	}
	out := make([]genome.Edge, 0, len(edges)+len(add))
	for _, e := range edges {
		if !removeKeys[e.Key()] {
			out = append(out, e)
		}
	}
	out = append(out, add...)
	return dedupEdges(out)
}

// dedupEdges mirrors the Merger's own (from,to,type) dedup and
// deterministic ordering (spec §4.5 rule 2), duplicated here rather than
// exported from merger since it is a tiny, self-contained helper and the
// two packages should not need to share unexported state.
func dedupEdges(edges []genome.Edge) []genome.Edge {
	seen := make(map[string]bool, len(edges))
	out := make([]genome.Edge, 0, len(edges))
	for _, e := range edges {
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func clone(g *genome.Genome) *genome.Genome {
	next := genome.New()
	next.Metadata = g.Metadata
	next.Summary = g.Summary

	for id, n := range g.Nodes {
		next.Nodes[id] = n
	}
	next.Edges = append([]genome.Edge(nil), g.Edges...)
	next.Flows = append([]genome.Flow(nil), g.Flows...)
	for id, c := range g.Concepts {
		next.Concepts[id] = c
	}
	for id, h := range g.History {
		next.History[id] = h
	}
	for id, r := range g.Risk {
		next.Risk[id] = r
	}
	for k, c := range g.Contracts {
		next.Contracts[k] = c
	}
	for id, s := range g.Security {
		next.Security[id] = s
	}
	return next
}
