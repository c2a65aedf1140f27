package configsrc

import (
	"context"
	"testing"

	"repogenome/internal/genome"
)

func TestAnalyzeYAML(t *testing.T) {
	a := New()
	fa, err := a.AnalyzeFile(context.Background(), "config.yaml", []byte("workers: 4\nignore: [vendor]\n"))
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	n, ok := fa.Nodes[genome.FileNodeId("config.yaml")]
	if !ok || n.Type != genome.NodeConfig {
		t.Fatalf("expected config node, got %+v", fa.Nodes)
	}
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	a := New()
	fa, err := a.AnalyzeFile(context.Background(), "broken.json", []byte("{not json"))
	if err != nil {
		t.Fatalf("AnalyzeFile should not error on malformed content: %v", err)
	}
	n := fa.Nodes[genome.FileNodeId("broken.json")]
	if n.Type != genome.NodeConfig {
		t.Fatalf("expected config node even for malformed file")
	}
}
