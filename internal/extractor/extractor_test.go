package extractor

import (
	"context"
	"testing"

	"repogenome/internal/analyzer"
	"repogenome/internal/capability"
	"repogenome/internal/classify"
	"repogenome/internal/genome"
)

type fakeFS struct {
	files map[string][]byte
}

func (f *fakeFS) Walk(ctx context.Context, root string, fn func(capability.FileInfo) error) error {
	for path := range f.files {
		if err := fn(capability.FileInfo{RelPath: path}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeFS) ReadFile(ctx context.Context, relPath string) ([]byte, error) {
	return f.files[relPath], nil
}

type fakeConfigAnalyzer struct{}

func (fakeConfigAnalyzer) Capability() classify.Capability { return classify.CapabilityConfig }
func (fakeConfigAnalyzer) Languages() []string             { return nil }
func (fakeConfigAnalyzer) AnalyzeFile(ctx context.Context, relPath string, content []byte) (*analyzer.FileAnalysis, error) {
	fa := analyzer.NewFileAnalysis(relPath)
	fa.Nodes[genome.FileNodeId(relPath)] = genome.Node{Type: genome.NodeConfig, File: relPath}
	return fa, nil
}

func TestScanCollectsAllFiles(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"config.yaml": []byte("a: 1\n"),
		"README.md":   []byte("# hi\n"),
		"vendor/x.go": []byte("package x"),
	}}
	reg := analyzer.NewRegistry()
	reg.Register(fakeConfigAnalyzer{})

	spider := New(fs, reg, nil)
	result, err := spider.Scan(context.Background(), ".", Options{Workers: 2, IgnorePatterns: []string{"vendor"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if result.ScannedFileCount != 2 {
		t.Fatalf("expected 2 scanned files (vendor excluded), got %d", result.ScannedFileCount)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 file analyses, got %d", len(result.Files))
	}
}

func TestResolveImportsLocalAndExternal(t *testing.T) {
	a := analyzer.NewFileAnalysis("pkg/a.go")
	a.Imports = []string{"./b", "github.com/foo/bar"}
	b := analyzer.NewFileAnalysis("pkg/b.go")

	ResolveImports([]*analyzer.FileAnalysis{a, b})

	var toB, toExternal bool
	for _, e := range a.Edges {
		if e.Type != genome.EdgeImports {
			continue
		}
		if e.To == genome.FileNodeId("pkg/b.go") {
			toB = true
		}
		if e.To == genome.ExternalNodeId("github.com/foo/bar") {
			toExternal = true
		}
	}
	if !toB {
		t.Fatalf("expected local import to resolve to pkg/b.go, edges=%+v", a.Edges)
	}
	if !toExternal {
		t.Fatalf("expected external import to resolve to ext: node, edges=%+v", a.Edges)
	}
}
