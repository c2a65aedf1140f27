package context

import "testing"

func TestSeedScoresConceptMembersHigher(t *testing.T) {
	g := demoGenome()
	items := seed(g, Request{Goal: "authentication"}, resolveScope(g, "authentication"), 0)

	scores := map[string]float64{}
	for _, it := range items {
		scores[string(it.Id)] = it.Relevance
	}
	if scores["internal/auth/login.Login"] <= scores["internal/billing/invoice.Generate"] {
		t.Fatalf("expected auth concept member to outscore unrelated billing node: %+v", scores)
	}
}

func TestExpandPropagatesFromSeeds(t *testing.T) {
	g := demoGenome()
	seeds := []Item{{Id: "internal/auth/login.Login", Relevance: 1.0, Criticality: 0.9}}
	expanded := expand(g, seeds, 2)

	var sawCalled bool
	for _, it := range expanded {
		if it.Id == "internal/auth/session.Validate" {
			sawCalled = true
		}
	}
	if !sawCalled {
		t.Fatalf("expected a called node to be reachable via expansion")
	}
}

func TestFoldGroupsBelowFloorSiblings(t *testing.T) {
	g := demoGenome()
	items := []Item{
		{Id: "internal/auth/login.go", Relevance: 0.05},
		{Id: "internal/auth/login.Login", Relevance: 0.9},
		{Id: "internal/auth/session.Validate", Relevance: 0.05},
	}
	kept, clusters := fold(g, items)

	if len(kept) != 1 || kept[0].Id != "internal/auth/login.Login" {
		t.Fatalf("expected only the above-floor item to remain standalone, got %+v", kept)
	}
	if len(clusters) != 1 || len(clusters[0].Nodes) != 2 {
		t.Fatalf("expected the two below-floor siblings to fold into one cluster, got %+v", clusters)
	}
}

func TestScoreAndPackRespectsBudget(t *testing.T) {
	items := []Item{
		{Id: "a", Relevance: 0.9, Criticality: 0.9},
		{Id: "b", Relevance: 0.8, Criticality: 0.2},
		{Id: "c", Relevance: 0.1, Criticality: 0.1},
	}
	packed, used := scoreAndPack(items, 0)
	if len(packed) != len(items) {
		t.Fatalf("expected every item to fit with an unbounded budget, got %d", len(packed))
	}
	if used <= 0 {
		t.Fatalf("expected a positive token cost")
	}
}
