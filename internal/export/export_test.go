package export

import (
	"bytes"
	"strings"
	"testing"

	"repogenome/internal/genome"
)

func sampleGenome() *genome.Genome {
	g := genome.New()
	g.Metadata.SchemaVersion = genome.CurrentSchemaVersion
	foo := genome.FileNodeId("pkg/foo.go")
	g.Nodes[foo] = genome.Node{Type: genome.NodeFile, File: "pkg/foo.go", Criticality: 0.2}
	fn := genome.SymbolNodeId("pkg/foo.go", "Foo")
	g.Nodes[fn] = genome.Node{Type: genome.NodeFunction, File: "pkg/foo.go", Criticality: 0.5}
	g.Edges = []genome.Edge{{From: foo, To: fn, Type: genome.EdgeDefines}}
	return g
}

func TestExportJSON(t *testing.T) {
	res, err := New(sampleGenome()).Export(FormatJSON, "genome")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, ok := res.Files["genome.json"]
	if !ok || len(data) == 0 {
		t.Fatalf("expected genome.json output, got %v", res.Files)
	}
}

func TestExportDOTContainsNodesAndEdges(t *testing.T) {
	res, err := New(sampleGenome()).Export(FormatDOT, "genome")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	out := string(res.Files["genome.dot"])
	if !strings.Contains(out, "digraph RepoGenome") {
		t.Fatalf("missing digraph header: %s", out)
	}
	if !strings.Contains(out, "->") {
		t.Fatalf("missing an edge: %s", out)
	}
}

func TestExportGraphMLWellFormedish(t *testing.T) {
	res, _ := New(sampleGenome()).Export(FormatGraphML, "genome")
	out := string(res.Files["genome.graphml"])
	if !strings.Contains(out, "<graphml") || !strings.Contains(out, "</graphml>") {
		t.Fatalf("missing graphml root element: %s", out)
	}
}

func TestExportCypherProducesCreateAndMatch(t *testing.T) {
	res, _ := New(sampleGenome()).Export(FormatCypher, "genome")
	out := string(res.Files["genome.cypher"])
	if !strings.Contains(out, "CREATE (n") {
		t.Fatalf("missing node CREATE: %s", out)
	}
	if !strings.Contains(out, "MATCH (a), (b)") {
		t.Fatalf("missing relationship MATCH: %s", out)
	}
}

func TestExportPlantUMLProducesPackages(t *testing.T) {
	res, _ := New(sampleGenome()).Export(FormatPlantUML, "genome")
	out := string(res.Files["genome.puml"])
	if !strings.Contains(out, "@startuml") || !strings.Contains(out, "package") {
		t.Fatalf("missing package block: %s", out)
	}
}

func TestExportCSVHasHeaderAndRows(t *testing.T) {
	res, err := New(sampleGenome()).Export(FormatCSV, "genome")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	nodes := res.Files["genome.nodes.csv"]
	edges := res.Files["genome.edges.csv"]
	if !bytes.HasPrefix(nodes, []byte("id,type,file,language,visibility,summary,criticality\n")) {
		t.Fatalf("unexpected nodes.csv header: %s", nodes)
	}
	if !bytes.HasPrefix(edges, []byte("from,to,type\n")) {
		t.Fatalf("unexpected edges.csv header: %s", edges)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := New(sampleGenome()).Export(Format("bogus"), "genome"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}
