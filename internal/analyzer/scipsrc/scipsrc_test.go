package scipsrc

import (
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"repogenome/internal/genome"
)

func TestConvertDocument(t *testing.T) {
	idx := &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "pkg/foo.go",
				Language:     "go",
				Symbols: []*scippb.SymbolInformation{
					{Symbol: "local foo.Bar().", DisplayName: "Bar", Kind: scippb.SymbolInformation_Function},
				},
				Occurrences: []*scippb.Occurrence{
					{Symbol: "local foo.Bar().", SymbolRoles: int32(scippb.SymbolRole_Definition)},
				},
			},
		},
	}

	results := Convert(idx)
	if len(results) != 1 {
		t.Fatalf("expected 1 file result, got %d", len(results))
	}
	fa := results[0]
	id := genome.SymbolNodeId("pkg/foo.go", "Bar")
	if _, ok := fa.Nodes[id]; !ok {
		t.Fatalf("expected Bar node, got %+v", fa.Nodes)
	}
	found := false
	for _, e := range fa.Edges {
		if e.Type == genome.EdgeDefines && e.To == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected defines edge to Bar, got %+v", fa.Edges)
	}
}
