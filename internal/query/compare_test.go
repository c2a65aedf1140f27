package query

import (
	"strings"
	"testing"

	"repogenome/internal/genome"
)

func compareGenome() *genome.Genome {
	g := genome.New()
	g.Nodes["internal/auth/login.go"] = genome.Node{
		Type: genome.NodeFile, File: "internal/auth/login.go", Language: "go",
		Summary: "handles user login\nvalidates credentials\n", Criticality: 0.4,
	}
	g.Nodes["internal/auth/logout.go"] = genome.Node{
		Type: genome.NodeFile, File: "internal/auth/logout.go", Language: "go",
		Summary: "handles user logout\nclears session\n", Criticality: 0.2,
	}
	return g
}

func TestCompareFieldDiffs(t *testing.T) {
	g := compareGenome()
	res, err := Compare(g, "internal/auth/login.go", "internal/auth/logout.go", []string{"language", "criticality", "summary"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	byField := map[string]FieldDiff{}
	for _, d := range res.Diffs {
		byField[d.Field] = d
	}
	if !byField["language"].Equal {
		t.Fatalf("expected language to match")
	}
	if byField["criticality"].Equal {
		t.Fatalf("expected criticality to differ")
	}
	if byField["summary"].Equal {
		t.Fatalf("expected summary to differ")
	}
	if !strings.Contains(byField["summary"].Unified, "@@") {
		t.Fatalf("expected unified diff hunk marker, got %q", byField["summary"].Unified)
	}
}

func TestCompareUnknownNode(t *testing.T) {
	g := compareGenome()
	if _, err := Compare(g, "internal/auth/login.go", "missing", nil); err == nil {
		t.Fatalf("expected error for missing node")
	}
}
