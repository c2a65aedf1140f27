package context

import "repogenome/internal/genome"

// edgeWeight ranks how strongly an edge type propagates relevance during
// expansion (spec §4.9 step 2: "defines, calls, imports get high weight;
// tests, mutates lower").
func edgeWeight(t genome.EdgeType) float64 {
	switch t {
	case genome.EdgeDefines, genome.EdgeCalls, genome.EdgeImports:
		return 0.8
	case genome.EdgeDependsOn, genome.EdgeReferences:
		return 0.5
	case genome.EdgeTests, genome.EdgeMutates, genome.EdgeEmits:
		return 0.25
	default:
		return 0.4
	}
}

// expand performs a weighted BFS outward from seeds, decaying relevance
// by edgeWeight at each hop and keeping the best score any path gives a
// node, up to maxDepth hops.
func expand(g *genome.Genome, seeds []Item, maxDepth int) []Item {
	idx := genome.BuildEdgeIndex(g)
	best := map[genome.NodeId]float64{}
	reason := map[genome.NodeId]string{}
	for _, s := range seeds {
		best[s.Id] = s.Relevance
		reason[s.Id] = s.Reason
	}

	type frontierEntry struct {
		id    genome.NodeId
		score float64
		depth int
	}
	var frontier []frontierEntry
	for _, s := range seeds {
		frontier = append(frontier, frontierEntry{id: s.Id, score: s.Relevance, depth: 0})
	}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		for _, e := range append(append([]genome.Edge{}, idx.Outgoing(cur.id)...), idx.Incoming(cur.id)...) {
			next := e.To
			if next == cur.id {
				next = e.From
			}
			propagated := cur.score * edgeWeight(e.Type)
			if propagated <= best[next] {
				continue
			}
			best[next] = propagated
			reason[next] = "expanded_via_" + string(e.Type)
			frontier = append(frontier, frontierEntry{id: next, score: propagated, depth: cur.depth + 1})
		}
	}

	items := make([]Item, 0, len(best))
	for id, score := range best {
		n, ok := g.Nodes[id]
		crit := 0.0
		if ok {
			crit = n.Criticality
		}
		items = append(items, Item{Id: id, Relevance: score, Criticality: crit, Reason: reason[id]})
	}
	sortItemsByRelevance(items)
	return items
}
