package query

import (
	"testing"

	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

func chainGenome() *genome.Genome {
	g := genome.New()
	ids := []genome.NodeId{"a", "b", "c", "d"}
	for _, id := range ids {
		g.Nodes[id] = genome.Node{Type: genome.NodeFunction}
	}
	g.Edges = []genome.Edge{
		{From: "a", To: "b", Type: genome.EdgeCalls},
		{From: "b", To: "c", Type: genome.EdgeCalls},
		{From: "c", To: "d", Type: genome.EdgeCalls},
		{From: "a", To: "d", Type: genome.EdgeImports},
	}
	return g
}

func TestGetNode(t *testing.T) {
	g := chainGenome()
	if _, ok := GetNode(g, "a"); !ok {
		t.Fatalf("expected node a to exist")
	}
	if _, ok := GetNode(g, "missing"); ok {
		t.Fatalf("did not expect node missing to exist")
	}
}

func TestDependenciesOutgoingBFS(t *testing.T) {
	g := chainGenome()
	entries, err := Dependencies(g, "a", DirectionOutgoing, 0)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 reachable nodes, got %d", len(entries))
	}
}

func TestDependenciesRespectsMaxDepth(t *testing.T) {
	g := chainGenome()
	entries, err := Dependencies(g, "a", DirectionOutgoing, 1)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 nodes within depth 1 (b via calls, d via imports), got %d", len(entries))
	}
}

func TestDependenciesIncoming(t *testing.T) {
	g := chainGenome()
	entries, err := Dependencies(g, "d", DirectionIncoming, 0)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 ancestors, got %d", len(entries))
	}
}

func TestFindPathShortestRoute(t *testing.T) {
	g := chainGenome()
	path, err := FindPath(g, "a", "d", []genome.EdgeType{genome.EdgeCalls}, 0)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	want := []genome.NodeId{"a", "b", "c", "d"}
	if len(path) != len(want) {
		t.Fatalf("unexpected path length: %v", path)
	}
	for i, id := range want {
		if path[i] != id {
			t.Fatalf("unexpected path %v, want %v", path, want)
		}
	}
}

func TestFindPathNotReachable(t *testing.T) {
	g := chainGenome()
	g.Nodes["isolated"] = genome.Node{Type: genome.NodeFunction}
	_, err := FindPath(g, "a", "isolated", nil, 0)
	if err == nil {
		t.Fatalf("expected error for unreachable node")
	}
	if rgerrors.CodeOf(err) != rgerrors.NotReachable {
		t.Fatalf("expected NotReachable code, got %v", rgerrors.CodeOf(err))
	}
}

func TestFindPathUnknownNode(t *testing.T) {
	g := chainGenome()
	_, err := FindPath(g, "a", "ghost", nil, 0)
	if err == nil || rgerrors.CodeOf(err) != rgerrors.NotFound {
		t.Fatalf("expected NotFound code, got %v", err)
	}
}
