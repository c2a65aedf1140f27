package flow

import (
	"testing"

	"repogenome/internal/genome"
)

func buildGraph() *genome.Genome {
	g := genome.New()
	a := genome.SymbolNodeId("pkg/a.go", "A")
	b := genome.SymbolNodeId("pkg/a.go", "B")
	g.Nodes[a] = genome.Node{Type: genome.NodeFunction, Visibility: genome.VisibilityPublic}
	g.Nodes[b] = genome.Node{Type: genome.NodeFunction, Visibility: genome.VisibilityInternal}
	g.Edges = []genome.Edge{
		{From: a, To: b, Type: genome.EdgeCalls},
	}
	return g
}

func TestWeaveTreatsFileWithModuleLevelCallAsEntry(t *testing.T) {
	g := genome.New()
	fileId := genome.FileNodeId("main.py")
	helloId := genome.SymbolNodeId("main.py", "hello")
	g.Nodes[fileId] = genome.Node{Type: genome.NodeFile, Language: "python"}
	g.Nodes[helloId] = genome.Node{Type: genome.NodeFunction, Visibility: genome.VisibilityInternal}
	g.Edges = []genome.Edge{{From: fileId, To: helloId, Type: genome.EdgeCalls}}

	flows := Weave(g)
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	if flows[0].Entry != fileId {
		t.Fatalf("expected main.py to be the flow's entry, got %s", flows[0].Entry)
	}
	if len(flows[0].Path) != 2 || flows[0].Path[1] != helloId {
		t.Fatalf("expected the flow to walk from main.py into hello, got %v", flows[0].Path)
	}
}

func TestWeaveFindsEntryAndPath(t *testing.T) {
	g := buildGraph()
	flows := Weave(g)
	if len(flows) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(flows))
	}
	f := flows[0]
	if f.Entry != genome.SymbolNodeId("pkg/a.go", "A") {
		t.Fatalf("unexpected entry: %s", f.Entry)
	}
	if len(f.Path) != 2 {
		t.Fatalf("expected path length 2, got %d: %v", len(f.Path), f.Path)
	}
	if f.Confidence <= 0 || f.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", f.Confidence)
	}
}
