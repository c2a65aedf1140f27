package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"repogenome/internal/genome"
)

func writeTempRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	src := "package main\n\nfunc Greet(name string) string {\n\treturn \"hi \" + name\n}\n\nfunc main() {\n\tGreet(\"world\")\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return dir
}

func TestFullScanProducesValidGenome(t *testing.T) {
	dir := writeTempRepo(t)
	opts := DefaultOptions(dir)
	e := New(opts, nil)

	g, err := e.FullScan(context.Background())
	if err != nil {
		t.Fatalf("FullScan: %v", err)
	}
	if len(g.Nodes) == 0 {
		t.Fatalf("expected at least one node from the scanned file")
	}
	if _, ok := g.Nodes[genome.FileNodeId("main.go")]; !ok {
		t.Fatalf("expected a file node for main.go, got %+v", g.Nodes)
	}
	if err := genome.Validate(g); err != nil {
		t.Fatalf("scanned genome failed validation: %v", err)
	}
}

func TestFullScanFoldsInSCIPIndexWhenConfigured(t *testing.T) {
	dir := writeTempRepo(t)

	idx := &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "main.go",
				Language:     "go",
				Symbols: []*scippb.SymbolInformation{
					{Symbol: "local main.Helper().", DisplayName: "Helper", Kind: scippb.SymbolInformation_Function},
				},
				Occurrences: []*scippb.Occurrence{
					{Symbol: "local main.Helper().", SymbolRoles: int32(scippb.SymbolRole_Definition)},
				},
			},
		},
	}
	raw, err := proto.Marshal(idx)
	if err != nil {
		t.Fatalf("marshaling fixture index: %v", err)
	}
	indexPath := filepath.Join(dir, "index.scip")
	if err := os.WriteFile(indexPath, raw, 0o644); err != nil {
		t.Fatalf("writing fixture index: %v", err)
	}

	opts := DefaultOptions(dir)
	opts.SCIPIndexPath = indexPath
	e := New(opts, nil)

	g, err := e.FullScan(context.Background())
	if err != nil {
		t.Fatalf("FullScan: %v", err)
	}
	if _, ok := g.Nodes[genome.SymbolNodeId("main.go", "Helper")]; !ok {
		t.Fatalf("expected a SCIP-derived Helper node, got %+v", g.Nodes)
	}
	if err := genome.Validate(g); err != nil {
		t.Fatalf("scanned genome with SCIP fragments failed validation: %v", err)
	}
}

func TestCoordinatorRunsAfterFullScan(t *testing.T) {
	dir := writeTempRepo(t)
	opts := DefaultOptions(dir)
	e := New(opts, nil)

	g, err := e.FullScan(context.Background())
	if err != nil {
		t.Fatalf("FullScan: %v", err)
	}

	extra := filepath.Join(dir, "extra.go")
	if err := os.WriteFile(extra, []byte("package main\n\nfunc Extra() {}\n"), 0o644); err != nil {
		t.Fatalf("writing extra file: %v", err)
	}

	next, cs, err := e.Coordinator().Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Coordinator.Run: %v", err)
	}
	if cs.IsEmpty() {
		t.Fatalf("expected the new file to register as a change")
	}
	if _, ok := next.Nodes[genome.FileNodeId("extra.go")]; !ok {
		t.Fatalf("expected extra.go's file node in the updated genome")
	}
}
