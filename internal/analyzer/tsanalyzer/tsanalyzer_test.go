//go:build cgo

package tsanalyzer

import (
	"context"
	"testing"

	"repogenome/internal/genome"
)

func TestAnalyzeGoFile(t *testing.T) {
	src := []byte(`package sample

import "fmt"

func Greet(name string) string {
	return fmt.Sprintf("hi %s", name)
}

type Widget struct{}
`)
	a := New()
	fa, err := a.AnalyzeFile(context.Background(), "sample.go", src)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	greetId := genome.SymbolNodeId("sample.go", "Greet")
	if _, ok := fa.Nodes[greetId]; !ok {
		t.Fatalf("expected Greet function node, got %+v", fa.Nodes)
	}
	widgetId := genome.SymbolNodeId("sample.go", "Widget")
	if _, ok := fa.Nodes[widgetId]; !ok {
		t.Fatalf("expected Widget type node, got %+v", fa.Nodes)
	}
	foundDefines := 0
	for _, e := range fa.Edges {
		if e.Type == genome.EdgeDefines {
			foundDefines++
		}
	}
	if foundDefines < 2 {
		t.Fatalf("expected at least 2 defines edges, got %d", foundDefines)
	}
}

func TestAnalyzePythonFile(t *testing.T) {
	src := []byte("def add(a, b):\n    return a + b\n\nclass Point:\n    pass\n")
	a := New()
	fa, err := a.AnalyzeFile(context.Background(), "sample.py", src)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if _, ok := fa.Nodes[genome.SymbolNodeId("sample.py", "add")]; !ok {
		t.Fatalf("expected add function node")
	}
	if _, ok := fa.Nodes[genome.SymbolNodeId("sample.py", "Point")]; !ok {
		t.Fatalf("expected Point class node")
	}
}

func TestAnalyzePythonFileMainGuardCallsFromFile(t *testing.T) {
	src := []byte("def hello():\n    pass\n\nif __name__ == \"__main__\":\n    hello()\n")
	a := New()
	fa, err := a.AnalyzeFile(context.Background(), "main.py", src)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	fileId := genome.FileNodeId("main.py")
	helloId := genome.SymbolNodeId("main.py", "hello")
	found := false
	for _, e := range fa.Edges {
		if e.Type == genome.EdgeCalls && e.From == fileId && e.To == helloId {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a calls edge from main.py to hello, got %+v", fa.Edges)
	}
}
