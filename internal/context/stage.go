package context

import (
	"sort"

	"repogenome/internal/genome"
)

// maxTopConcepts bounds the skeleton's concept list (spec §4.9 step 5).
const maxTopConcepts = 8

// buildSkeleton assembles the low-latency first page: entry points from
// the Genome summary, the top concepts touched by the packed items, and
// the folded clusters. get_context_skeleton returns just this.
func buildSkeleton(g *genome.Genome, packed []Item, clusters []Cluster) Skeleton {
	conceptHits := map[string]int{}
	for _, it := range packed {
		for conceptId, concept := range g.Concepts {
			for _, member := range concept.Nodes {
				if member == it.Id {
					conceptHits[string(conceptId)]++
					break
				}
			}
		}
	}

	var topConcepts []string
	for slug := range conceptHits {
		topConcepts = append(topConcepts, slug)
	}
	sort.Slice(topConcepts, func(i, j int) bool {
		a, b := topConcepts[i], topConcepts[j]
		if conceptHits[a] != conceptHits[b] {
			return conceptHits[a] > conceptHits[b]
		}
		return a < b
	})
	if len(topConcepts) > maxTopConcepts {
		topConcepts = topConcepts[:maxTopConcepts]
	}

	return Skeleton{
		EntryPoints: g.Summary.EntryPoints,
		TopConcepts: topConcepts,
		Clusters:    clusters,
	}
}
