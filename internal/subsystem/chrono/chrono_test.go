package chrono

import (
	"context"
	"testing"
	"time"

	"repogenome/internal/capability"
	"repogenome/internal/genome"
)

type fakeHistory struct {
	metrics map[string]capability.ChurnMetrics
}

func (f fakeHistory) IsAvailable(ctx context.Context) bool { return true }
func (f fakeHistory) FileHistory(ctx context.Context, relPath string, limit int) ([]capability.CommitInfo, error) {
	return nil, nil
}
func (f fakeHistory) FileChurn(ctx context.Context, relPath string, since string) (capability.ChurnMetrics, error) {
	return f.metrics[relPath], nil
}
func (f fakeHistory) ChangedSince(ctx context.Context, since string) ([]string, error) { return nil, nil }

func TestMapProducesNormalizedHistory(t *testing.T) {
	g := genome.New()
	g.Nodes[genome.FileNodeId("hot.go")] = genome.Node{Type: genome.NodeFile, File: "hot.go"}

	src := fakeHistory{metrics: map[string]capability.ChurnMetrics{
		"hot.go": {ChangeCount: 20, AuthorCount: 4, AverageChanges: 30, LastModified: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}

	hist := Map(context.Background(), g, src, func(m capability.ChurnMetrics) float64 {
		return float64(m.ChangeCount) * float64(m.AuthorCount)
	}, "")

	h, ok := hist[genome.FileNodeId("hot.go")]
	if !ok {
		t.Fatalf("expected history entry for hot.go")
	}
	if h.ChurnScore < 0 || h.ChurnScore > 1 {
		t.Fatalf("churn score out of [0,1]: %v", h.ChurnScore)
	}
}
