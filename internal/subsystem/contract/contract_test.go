package contract

import (
	"testing"

	"repogenome/internal/genome"
)

func TestWeaveScoresPublicSymbol(t *testing.T) {
	g := genome.New()
	pub := genome.SymbolNodeId("pkg/a.go", "Do")
	caller := genome.SymbolNodeId("pkg/b.go", "Use")
	g.Nodes[pub] = genome.Node{Type: genome.NodeFunction, Visibility: genome.VisibilityPublic}
	g.Nodes[caller] = genome.Node{Type: genome.NodeFunction, Visibility: genome.VisibilityInternal}
	g.Edges = []genome.Edge{{From: caller, To: pub, Type: genome.EdgeCalls}}

	contracts := Weave(g, nil)
	c, ok := contracts[string(pub)]
	if !ok {
		t.Fatalf("expected contract for public symbol")
	}
	if c.BreakingChangeRisk <= 0 || c.BreakingChangeRisk > 1 {
		t.Fatalf("risk out of range: %v", c.BreakingChangeRisk)
	}
	if len(c.DependsOn) != 1 || c.DependsOn[0] != caller {
		t.Fatalf("expected DependsOn=[caller], got %v", c.DependsOn)
	}
}

func TestWeaveSkipsPrivateSymbols(t *testing.T) {
	g := genome.New()
	priv := genome.SymbolNodeId("pkg/a.go", "helper")
	g.Nodes[priv] = genome.Node{Type: genome.NodeFunction, Visibility: genome.VisibilityPrivate}
	contracts := Weave(g, nil)
	if len(contracts) != 0 {
		t.Fatalf("expected no contracts for private-only genome, got %v", contracts)
	}
}

func TestRiskSaturates(t *testing.T) {
	if v := risk(10, true, 1); v != 1 {
		t.Fatalf("expected saturated risk of 1, got %v", v)
	}
}
