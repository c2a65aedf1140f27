package query

import (
	"testing"

	"repogenome/internal/genome"
)

func fnCandidate() candidate {
	return candidate{
		id: genome.NodeId("internal/auth/login.Login"),
		node: genome.Node{
			Type:        genome.NodeFunction,
			File:        "internal/auth/login.go",
			Language:    "go",
			Visibility:  genome.VisibilityPublic,
			Summary:     "handles login",
			Criticality: 0.7,
		},
		concepts: []string{"auth", "http"},
	}
}

func TestPredicateEvalEq(t *testing.T) {
	c := fnCandidate()
	p := Predicate{Field: "type", Op: OpEq, Value: "function"}
	ok, err := p.Eval(c)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	p = Predicate{Field: "type", Op: OpEq, Value: "class"}
	ok, err = p.Eval(c)
	if err != nil || ok {
		t.Fatalf("expected no match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalRegex(t *testing.T) {
	c := fnCandidate()
	p := Predicate{Field: "file", Op: OpRegex, Value: "^internal/auth/.*\\.go$"}
	ok, err := p.Eval(c)
	if err != nil || !ok {
		t.Fatalf("expected regex match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalIn(t *testing.T) {
	c := fnCandidate()
	p := Predicate{Field: "language", Op: OpIn, Values: []interface{}{"python", "go", "rust"}}
	ok, err := p.Eval(c)
	if err != nil || !ok {
		t.Fatalf("expected in-set match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalBetween(t *testing.T) {
	c := fnCandidate()
	p := Predicate{Field: "criticality", Op: OpBetween, Min: 0.5, Max: 1.0}
	ok, err := p.Eval(c)
	if err != nil || !ok {
		t.Fatalf("expected between match, got ok=%v err=%v", ok, err)
	}

	p = Predicate{Field: "criticality", Op: OpBetween, Min: 0.8, Max: 1.0}
	ok, err = p.Eval(c)
	if err != nil || ok {
		t.Fatalf("expected no between match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalAndOrNot(t *testing.T) {
	c := fnCandidate()

	and := Predicate{And: []Predicate{
		{Field: "type", Op: OpEq, Value: "function"},
		{Field: "language", Op: OpEq, Value: "go"},
	}}
	if ok, err := and.Eval(c); err != nil || !ok {
		t.Fatalf("expected AND match, got ok=%v err=%v", ok, err)
	}

	or := Predicate{Or: []Predicate{
		{Field: "type", Op: OpEq, Value: "class"},
		{Field: "language", Op: OpEq, Value: "go"},
	}}
	if ok, err := or.Eval(c); err != nil || !ok {
		t.Fatalf("expected OR match, got ok=%v err=%v", ok, err)
	}

	not := Predicate{Not: &Predicate{Field: "type", Op: OpEq, Value: "class"}}
	if ok, err := not.Eval(c); err != nil || !ok {
		t.Fatalf("expected NOT match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalConceptMembership(t *testing.T) {
	c := fnCandidate()

	p := Predicate{Field: "concept", Value: "auth"}
	ok, err := p.Eval(c)
	if err != nil || !ok {
		t.Fatalf("expected concept membership match, got ok=%v err=%v", ok, err)
	}

	p = Predicate{Field: "concept", Value: "billing"}
	ok, err = p.Eval(c)
	if err != nil || ok {
		t.Fatalf("expected no concept membership match, got ok=%v err=%v", ok, err)
	}

	// A node in two concepts must match either, not just the last one
	// joined into a comma-separated string.
	p = Predicate{Field: "concept", Value: "http"}
	ok, err = p.Eval(c)
	if err != nil || !ok {
		t.Fatalf("expected second concept to match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalCompactFieldAliases(t *testing.T) {
	c := fnCandidate()
	cases := []struct {
		field string
		value interface{}
	}{
		{"t", "function"},
		{"f", "internal/auth/login.go"},
		{"v", "public"},
		{"s", "handles login"},
	}
	for _, tc := range cases {
		p := Predicate{Field: tc.field, Op: OpEq, Value: tc.value}
		ok, err := p.Eval(c)
		if err != nil || !ok {
			t.Fatalf("alias %q: expected match, got ok=%v err=%v", tc.field, ok, err)
		}
	}

	p := Predicate{Field: "c", Op: OpBetween, Min: 0.5, Max: 1.0}
	if ok, err := p.Eval(c); err != nil || !ok {
		t.Fatalf("alias \"c\": expected between match, got ok=%v err=%v", ok, err)
	}
}

func TestPredicateEvalUnknownField(t *testing.T) {
	c := fnCandidate()
	p := Predicate{Field: "nonexistent", Op: OpEq, Value: "x"}
	if _, err := p.Eval(c); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
