package query

import (
	"sort"
	"strings"

	"repogenome/internal/genome"
)

// FilterOptions controls pagination and result shape (spec §4.8).
type FilterOptions struct {
	Limit      int
	Offset     int
	Fields     []string // projection; empty means the full node
	IDsOnly    bool
}

// FilterResult is one page of a Filter call.
type FilterResult struct {
	Total   int              `json:"total"`
	Ids     []genome.NodeId  `json:"ids,omitempty"`
	Nodes   []NodeProjection `json:"nodes,omitempty"`
}

// NodeProjection is a node reduced to the fields the caller asked for.
type NodeProjection struct {
	Id     genome.NodeId          `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// Filter evaluates p against every node in g, in deterministic id order,
// and returns one page per opts.
func Filter(g *genome.Genome, p Predicate, opts FilterOptions) (FilterResult, error) {
	candidates := candidatesFor(g)

	var matched []candidate
	for _, c := range candidates {
		ok, err := p.Eval(c)
		if err != nil {
			return FilterResult{}, err
		}
		if ok {
			matched = append(matched, c)
		}
	}

	total := len(matched)
	page := paginate(matched, opts.Offset, opts.Limit)

	result := FilterResult{Total: total}
	if opts.IDsOnly {
		for _, c := range page {
			result.Ids = append(result.Ids, c.id)
		}
		return result, nil
	}

	for _, c := range page {
		result.Nodes = append(result.Nodes, project(c, opts.Fields))
	}
	return result, nil
}

// candidatesFor flattens a Genome into the sorted candidate list every
// query walks, precomputing each node's concept membership once.
func candidatesFor(g *genome.Genome) []candidate {
	memberOf := make(map[genome.NodeId][]string)
	for id, concept := range g.Concepts {
		slug := strings.TrimPrefix(string(id), genome.ConceptPrefix)
		for _, member := range concept.Nodes {
			memberOf[member] = append(memberOf[member], slug)
		}
	}

	out := make([]candidate, 0, len(g.Nodes))
	for id, n := range g.Nodes {
		out = append(out, candidate{id: id, node: n, concepts: memberOf[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func paginate(items []candidate, offset, limit int) []candidate {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func project(c candidate, fields []string) NodeProjection {
	out := map[string]interface{}{}
	if len(fields) == 0 {
		fields = []string{"type", "file", "language", "visibility", "summary", "criticality"}
	}
	for _, f := range fields {
		v, err := fieldValue(c, f)
		if err != nil {
			continue
		}
		out[f] = v
	}
	return NodeProjection{Id: c.id, Fields: out}
}
