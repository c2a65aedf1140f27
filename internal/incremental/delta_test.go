package incremental

import (
	"testing"

	"repogenome/internal/genome"
	"repogenome/internal/merger"
)

func baseGenome() *genome.Genome {
	g := genome.New()
	fileId := genome.FileNodeId("pkg/a.go")
	fnId := genome.SymbolNodeId("pkg/a.go", "Do")
	g.Nodes[fileId] = genome.Node{Type: genome.NodeFile, File: "pkg/a.go"}
	g.Nodes[fnId] = genome.Node{Type: genome.NodeFunction, File: "pkg/a.go", Visibility: genome.VisibilityPublic}
	g.Edges = []genome.Edge{{From: fileId, To: fnId, Type: genome.EdgeDefines}}
	g.Metadata.SchemaVersion = genome.CurrentSchemaVersion
	return g
}

func TestApplyDeltaAddsNode(t *testing.T) {
	g := baseGenome()
	m := merger.New(merger.DefaultOptions())

	newFile := genome.FileNodeId("pkg/b.go")
	newFn := genome.SymbolNodeId("pkg/b.go", "Other")
	delta := GenomeDelta{
		NodesAdd: map[genome.NodeId]genome.Node{
			newFile: {Type: genome.NodeFile, File: "pkg/b.go"},
			newFn:   {Type: genome.NodeFunction, File: "pkg/b.go", Visibility: genome.VisibilityPublic},
		},
		EdgesAdd: []genome.Edge{{From: newFile, To: newFn, Type: genome.EdgeDefines}},
	}

	next, err := ApplyDelta(m, g, delta)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if _, ok := next.Nodes[newFn]; !ok {
		t.Fatalf("expected new function node present after delta")
	}
	if len(next.Summary.EntryPoints) != 2 {
		t.Fatalf("expected summary to be recomputed with 2 entry points, got %v", next.Summary.EntryPoints)
	}
}

func TestApplyDeltaRemovesNode(t *testing.T) {
	g := baseGenome()
	m := merger.New(merger.DefaultOptions())

	fileId := genome.FileNodeId("pkg/a.go")
	fnId := genome.SymbolNodeId("pkg/a.go", "Do")
	delta := GenomeDelta{
		NodesRemove: []genome.NodeId{fnId},
		EdgesRemove: []genome.Edge{{From: fileId, To: fnId, Type: genome.EdgeDefines}},
	}

	next, err := ApplyDelta(m, g, delta)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if _, ok := next.Nodes[fnId]; ok {
		t.Fatalf("expected removed function node to be gone")
	}
}

func TestApplyDeltaRejectsInvalidResult(t *testing.T) {
	g := baseGenome()
	m := merger.New(merger.DefaultOptions())

	fileId := genome.FileNodeId("pkg/a.go")
	fnId := genome.SymbolNodeId("pkg/a.go", "Do")
	// Remove the function node but leave its defines edge dangling.
	delta := GenomeDelta{NodesRemove: []genome.NodeId{fnId}}
	_ = fileId

	next, err := ApplyDelta(m, g, delta)
	if err == nil {
		t.Fatalf("expected dangling edge to fail validation")
	}
	if next != g {
		t.Fatalf("expected original genome returned unchanged on failure")
	}
}
