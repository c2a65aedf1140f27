package query

import "testing"

func TestParseQueryTypeKeyword(t *testing.T) {
	p := ParseQuery("type:function")
	if p.Field != "type" || p.Op != OpEq || p.Value != "function" {
		t.Fatalf("unexpected predicate: %+v", p)
	}
}

func TestParseQueryCombinesKeywordsWithAnd(t *testing.T) {
	p := ParseQuery("type:function lang:go")
	if len(p.And) != 2 {
		t.Fatalf("expected 2 ANDed leaves, got %+v", p)
	}
}

func TestParseQueryConceptKeyword(t *testing.T) {
	p := ParseQuery("concept:auth")
	if p.Field != "concept" || p.Value != "auth" {
		t.Fatalf("unexpected predicate: %+v", p)
	}
}

func TestParseQueryFileGlob(t *testing.T) {
	p := ParseQuery("file:internal/auth/*.go")
	if p.Field != "file" || p.Op != OpRegex {
		t.Fatalf("unexpected predicate: %+v", p)
	}
	pattern, _ := p.Value.(string)
	if pattern != "^internal/auth/.*\\.go$" {
		t.Fatalf("unexpected glob translation: %q", pattern)
	}
}

func TestParseQueryBareWordsMatchSummary(t *testing.T) {
	p := ParseQuery("login handler")
	if len(p.And) != 2 {
		t.Fatalf("expected 2 ANDed summary predicates, got %+v", p)
	}
	for _, leaf := range p.And {
		if leaf.Field != "summary" || leaf.Op != OpRegex {
			t.Fatalf("unexpected leaf: %+v", leaf)
		}
	}
}

func TestParseQueryEmpty(t *testing.T) {
	p := ParseQuery("")
	if p.Field != "" || len(p.And) != 0 || len(p.Or) != 0 {
		t.Fatalf("expected empty predicate, got %+v", p)
	}
}

func TestParseQueryDeterministic(t *testing.T) {
	a := ParseQuery("type:function lang:go concept:auth")
	b := ParseQuery("type:function lang:go concept:auth")
	if len(a.And) != len(b.And) {
		t.Fatalf("expected identical predicate shape across calls")
	}
}
