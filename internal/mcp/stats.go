package mcp

import "repogenome/internal/genome"

// Stats is the stats() tool / stats resource payload: coarse counts and
// distributions over the current Genome, cheap enough to compute on
// every call rather than caching.
type Stats struct {
	NodeCount        int                          `json:"node_count"`
	EdgeCount        int                          `json:"edge_count"`
	NodesByType      map[genome.NodeType]int      `json:"nodes_by_type"`
	EdgesByType      map[genome.EdgeType]int      `json:"edges_by_type"`
	NodesByLanguage  map[string]int               `json:"nodes_by_language"`
	AverageCriticality float64                    `json:"average_criticality"`
	FlowCount        int                          `json:"flow_count"`
	ConceptCount     int                          `json:"concept_count"`
	Partial          bool                         `json:"partial"`
}

func computeStats(g *genome.Genome) Stats {
	stats := Stats{
		NodesByType:     make(map[genome.NodeType]int),
		EdgesByType:     make(map[genome.EdgeType]int),
		NodesByLanguage: make(map[string]int),
	}
	if g == nil {
		return stats
	}

	var criticalitySum float64
	for _, n := range g.Nodes {
		stats.NodesByType[n.Type]++
		if n.Language != "" {
			stats.NodesByLanguage[n.Language]++
		}
		criticalitySum += n.Criticality
	}
	stats.NodeCount = len(g.Nodes)
	if stats.NodeCount > 0 {
		stats.AverageCriticality = criticalitySum / float64(stats.NodeCount)
	}

	for _, e := range g.Edges {
		stats.EdgesByType[e.Type]++
	}
	stats.EdgeCount = len(g.Edges)
	stats.FlowCount = len(g.Flows)
	stats.ConceptCount = len(g.Concepts)
	stats.Partial = g.Metadata.Partial
	return stats
}
