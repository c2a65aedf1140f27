package context

import (
	"path"
	"sort"
	"strings"

	"repogenome/internal/genome"
)

// relevanceFloor is the per-node relevance below which a node is a
// candidate for folding into a shared cluster rather than kept standalone
// (spec §4.9 step 3).
const relevanceFloor = 0.15

// fold groups items below relevanceFloor that share a concept or a parent
// directory into Cluster entries, leaving items at or above the floor
// untouched. Returns the kept (unfolded) items and the clusters.
func fold(g *genome.Genome, items []Item) ([]Item, []Cluster) {
	var kept []Item
	below := map[genome.NodeId]Item{}

	for _, it := range items {
		if it.Relevance >= relevanceFloor {
			kept = append(kept, it)
		} else {
			below[it.Id] = it
		}
	}
	if len(below) == 0 {
		return kept, nil
	}

	groups := map[string][]genome.NodeId{}
	for id := range below {
		label := foldLabel(g, id)
		groups[label] = append(groups[label], id)
	}

	var clusters []Cluster
	for label, ids := range groups {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		if len(ids) == 1 {
			// A singleton below the floor is still worth keeping standalone;
			// folding only pays off once there are siblings to merge.
			kept = append(kept, below[ids[0]])
			continue
		}
		clusters = append(clusters, Cluster{Label: label, Nodes: ids})
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Label < clusters[j].Label })
	sortItemsByRelevance(kept)
	return kept, clusters
}

// foldLabel picks the grouping key for a below-floor node: its concept if
// it belongs to exactly one, otherwise its parent directory.
func foldLabel(g *genome.Genome, id genome.NodeId) string {
	for conceptId, concept := range g.Concepts {
		for _, member := range concept.Nodes {
			if member == id {
				return "concept:" + strings.TrimPrefix(string(conceptId), genome.ConceptPrefix)
			}
		}
	}
	if n, ok := g.Nodes[id]; ok && n.File != "" {
		return "dir:" + path.Dir(n.File)
	}
	return "dir:."
}
