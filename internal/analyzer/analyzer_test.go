package analyzer

import (
	"context"
	"testing"

	"repogenome/internal/classify"
	"repogenome/internal/genome"
)

type fakeAnalyzer struct {
	cap  classify.Capability
	lang string
}

func (f fakeAnalyzer) Capability() classify.Capability { return f.cap }
func (f fakeAnalyzer) Languages() []string {
	if f.lang == "" {
		return nil
	}
	return []string{f.lang}
}
func (f fakeAnalyzer) AnalyzeFile(ctx context.Context, relPath string, content []byte) (*FileAnalysis, error) {
	fa := NewFileAnalysis(relPath)
	fa.Nodes[genome.FileNodeId(relPath)] = genome.Node{Type: genome.NodeFile, File: relPath}
	return fa, nil
}

func TestRegistryResolvesByCapabilityAndLanguage(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeAnalyzer{cap: classify.CapabilityTreeSitter, lang: "go"})
	r.Register(fakeAnalyzer{cap: classify.CapabilityConfig})

	got := r.Resolve(classify.Result{Capability: classify.CapabilityTreeSitter, Language: "go"})
	if got == nil {
		t.Fatalf("expected a match for go/treesitter")
	}
	if r.Resolve(classify.Result{Capability: classify.CapabilityTreeSitter, Language: "rust"}) != nil {
		t.Fatalf("did not expect a match for unregistered language")
	}
	if r.Resolve(classify.Result{Capability: classify.CapabilityConfig, Language: "anything"}) == nil {
		t.Fatalf("expected language-agnostic analyzer to match")
	}
}

func TestAnalyzeFileDispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeAnalyzer{cap: classify.CapabilityConfig})

	fa, err := AnalyzeFile(context.Background(), r, classify.Result{Capability: classify.CapabilityConfig}, "a.yaml", nil)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if fa == nil {
		t.Fatalf("expected non-nil analysis")
	}
}

func TestAnalyzeFileNoMatchReturnsNil(t *testing.T) {
	r := NewRegistry()
	fa, err := AnalyzeFile(context.Background(), r, classify.Result{Capability: classify.CapabilityNone}, "a.bin", nil)
	if err != nil || fa != nil {
		t.Fatalf("expected nil,nil for unmatched capability, got %+v, %v", fa, err)
	}
}
