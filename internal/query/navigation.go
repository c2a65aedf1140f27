package query

import (
	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// Direction picks which side of an edge Dependencies walks.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing" // what this node depends on
	DirectionIncoming Direction = "incoming" // what depends on this node
	DirectionBoth     Direction = "both"
)

// GetNode looks up a single node by id.
func GetNode(g *genome.Genome, id genome.NodeId) (genome.Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// DependencyEntry is one node reached from a Dependencies walk, along with
// the hop count from the origin.
type DependencyEntry struct {
	Id    genome.NodeId `json:"id"`
	Depth int           `json:"depth"`
}

// Dependencies performs a bounded breadth-first walk of the edge graph
// starting at id, per spec §4.8's dependency-traversal operation. maxDepth
// <= 0 means unbounded.
func Dependencies(g *genome.Genome, id genome.NodeId, dir Direction, maxDepth int) ([]DependencyEntry, error) {
	if _, ok := g.Nodes[id]; !ok && !genome.IsVirtual(id) {
		return nil, rgerrors.New(rgerrors.NotFound, "unknown node: "+string(id))
	}

	idx := genome.BuildEdgeIndex(g)
	visited := map[genome.NodeId]bool{id: true}
	queue := []DependencyEntry{{Id: id, Depth: 0}}
	var out []DependencyEntry

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && cur.Depth >= maxDepth {
			continue
		}

		for _, next := range neighbors(idx, cur.Id, dir) {
			if visited[next] {
				continue
			}
			visited[next] = true
			entry := DependencyEntry{Id: next, Depth: cur.Depth + 1}
			out = append(out, entry)
			queue = append(queue, entry)
		}
	}
	return out, nil
}

func neighbors(idx *genome.EdgeIndex, id genome.NodeId, dir Direction) []genome.NodeId {
	var out []genome.NodeId
	if dir == DirectionOutgoing || dir == DirectionBoth || dir == "" {
		for _, e := range idx.Outgoing(id) {
			out = append(out, e.To)
		}
	}
	if dir == DirectionIncoming || dir == DirectionBoth {
		for _, e := range idx.Incoming(id) {
			out = append(out, e.From)
		}
	}
	return out
}

// FindPath returns the shortest edge path from -> to, restricted to
// edgeTypes if non-empty and no longer than maxLen hops. It returns a
// NotReachable rgerrors.Error when no such path exists.
func FindPath(g *genome.Genome, from, to genome.NodeId, edgeTypes []genome.EdgeType, maxLen int) ([]genome.NodeId, error) {
	if _, ok := g.Nodes[from]; !ok && !genome.IsVirtual(from) {
		return nil, rgerrors.New(rgerrors.NotFound, "unknown node: "+string(from))
	}
	if _, ok := g.Nodes[to]; !ok && !genome.IsVirtual(to) {
		return nil, rgerrors.New(rgerrors.NotFound, "unknown node: "+string(to))
	}
	if from == to {
		return []genome.NodeId{from}, nil
	}

	allowed := make(map[genome.EdgeType]bool, len(edgeTypes))
	for _, t := range edgeTypes {
		allowed[t] = true
	}

	idx := genome.BuildEdgeIndex(g)
	type step struct {
		id   genome.NodeId
		prev genome.NodeId
	}
	visited := map[genome.NodeId]genome.NodeId{from: ""}
	queue := []step{{id: from}}
	depth := map[genome.NodeId]int{from: 0}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxLen > 0 && depth[cur.id] >= maxLen {
			continue
		}

		for _, e := range idx.Outgoing(cur.id) {
			if len(allowed) > 0 && !allowed[e.Type] {
				continue
			}
			if _, seen := visited[e.To]; seen {
				continue
			}
			visited[e.To] = cur.id
			depth[e.To] = depth[cur.id] + 1
			if e.To == to {
				return reconstructPath(visited, to), nil
			}
			queue = append(queue, step{id: e.To})
		}
	}

	return nil, rgerrors.New(rgerrors.NotReachable, "no path found within max_len").
		WithDetails(map[string]interface{}{"from": from, "to": to, "max_len": maxLen})
}

func reconstructPath(visited map[genome.NodeId]genome.NodeId, to genome.NodeId) []genome.NodeId {
	var reversed []genome.NodeId
	for cur := to; cur != ""; cur = visited[cur] {
		reversed = append(reversed, cur)
		if visited[cur] == "" {
			break
		}
	}
	out := make([]genome.NodeId, len(reversed))
	for i, id := range reversed {
		out[len(reversed)-1-i] = id
	}
	return out
}
