package context

import (
	"sort"
	"strings"

	"repogenome/internal/genome"
	"repogenome/internal/query"
)

// seedWeights balance the four scoring factors from spec §4.9 step 1.
const (
	weightLexical     = 0.35
	weightProximity   = 0.25
	weightCriticality = 0.2
	weightConcept     = 0.2
)

// seed scores every node against the goal and returns the top candidates,
// following spec §4.9 step 1: lexical match, proximity to must_include,
// criticality, and concept-membership against goal keywords.
func seed(g *genome.Genome, req Request, scope Scope, limit int) []Item {
	keywords := goalKeywords(req.Goal)
	conceptMembers := conceptMembersOf(g, scope.Domains)
	proximity := proximityScores(g, req.MustInclude)

	excluded := map[genome.NodeId]bool{}
	for _, id := range req.Exclude {
		excluded[id] = true
	}

	items := make([]Item, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		if excluded[id] {
			continue
		}

		lexical := lexicalScore(n, keywords)
		prox := proximity[id]
		concept := 0.0
		if conceptMembers[id] {
			concept = 1.0
		}

		score := weightLexical*lexical + weightProximity*prox + weightCriticality*n.Criticality + weightConcept*concept
		if score <= 0 && !isMustInclude(req.MustInclude, id) {
			continue
		}

		items = append(items, Item{
			Id:          id,
			Relevance:   score,
			Criticality: n.Criticality,
			Reason:      seedReason(lexical, prox, concept, n.Criticality),
		})
	}

	for _, id := range req.MustInclude {
		if excluded[id] {
			continue
		}
		if n, ok := g.Nodes[id]; ok && !containsItem(items, id) {
			items = append(items, Item{Id: id, Relevance: 1.0, Criticality: n.Criticality, Reason: "must_include"})
		}
	}

	sortItemsByRelevance(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func seedReason(lexical, proximity, concept, criticality float64) string {
	switch {
	case lexical > 0:
		return "lexical_match"
	case proximity > 0:
		return "proximity_to_must_include"
	case concept > 0:
		return "concept_membership"
	case criticality > 0:
		return "criticality"
	default:
		return "baseline"
	}
}

func goalKeywords(goal string) []string {
	raw := strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	var out []string
	for _, w := range raw {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

func lexicalScore(n genome.Node, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	haystack := strings.ToLower(n.File + " " + n.Summary)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}

func conceptMembersOf(g *genome.Genome, domains []string) map[genome.NodeId]bool {
	out := map[genome.NodeId]bool{}
	if len(domains) == 0 {
		return out
	}
	wanted := map[string]bool{}
	for _, d := range domains {
		wanted[strings.ToLower(d)] = true
	}
	for id, concept := range g.Concepts {
		slug := strings.ToLower(strings.TrimPrefix(string(id), genome.ConceptPrefix))
		if !wanted[slug] {
			continue
		}
		for _, member := range concept.Nodes {
			out[member] = true
		}
	}
	return out
}

// proximityScores computes a 0..1 closeness score to the nearest
// must_include node via BFS hop distance, decaying with depth.
func proximityScores(g *genome.Genome, mustInclude []genome.NodeId) map[genome.NodeId]float64 {
	out := map[genome.NodeId]float64{}
	for _, anchor := range mustInclude {
		out[anchor] = 1.0
		deps, err := query.Dependencies(g, anchor, query.DirectionBoth, 4)
		if err != nil {
			continue
		}
		for _, d := range deps {
			score := 1.0 / float64(1+d.Depth)
			if score > out[d.Id] {
				out[d.Id] = score
			}
		}
	}
	return out
}

func isMustInclude(mustInclude []genome.NodeId, id genome.NodeId) bool {
	for _, m := range mustInclude {
		if m == id {
			return true
		}
	}
	return false
}

func containsItem(items []Item, id genome.NodeId) bool {
	for _, it := range items {
		if it.Id == id {
			return true
		}
	}
	return false
}

func sortItemsByRelevance(items []Item) {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
}

func less(a, b Item) bool {
	if a.Relevance != b.Relevance {
		return a.Relevance > b.Relevance
	}
	if a.Criticality != b.Criticality {
		return a.Criticality > b.Criticality
	}
	return a.Id < b.Id
}
