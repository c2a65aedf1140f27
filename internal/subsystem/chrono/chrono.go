// Package chrono implements ChronoMap (spec §4.4): the temporal-evolution
// subsystem that turns capability.HistorySource churn data into bounded
// History entries per file, grounded on the teacher's
// internal/backends/git churn/hotspot scoring, normalized into the
// genome's [0,1] scalar convention instead of the teacher's raw score.
package chrono

import (
	"context"
	"math"

	"repogenome/internal/capability"
	"repogenome/internal/genome"
)

// NormalizationCeiling is the raw hotspot score treated as maximal churn;
// scores above it saturate at 1.0. Chosen from the teacher's own
// observed hotspot score range (sqrt(changeCount)*log(authors+1)*
// log(avgChanges+1) rarely exceeds ~40 even for the hottest files in a
// large, long-lived repository).
const NormalizationCeiling = 40.0

// HotspotScorer computes the raw, unbounded churn signal for one file's
// metrics (implemented by internal/capability/historysrc.HotspotScore).
type HotspotScorer func(capability.ChurnMetrics) float64

// Map produces a History entry per file node in g by querying src for
// each file's churn metrics since the given horizon.
func Map(ctx context.Context, g *genome.Genome, src capability.HistorySource, score HotspotScorer, since string) map[genome.NodeId]genome.History {
	if !src.IsAvailable(ctx) {
		return nil
	}

	out := make(map[genome.NodeId]genome.History)
	for id, n := range g.Nodes {
		if n.Type != genome.NodeFile {
			continue
		}
		metrics, err := src.FileChurn(ctx, n.File, since)
		if err != nil {
			continue
		}
		if metrics.ChangeCount == 0 {
			continue
		}
		out[id] = genome.History{
			ChurnScore:      normalize(score(metrics)),
			LastMajorChange: metrics.LastModified.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return out
}

func normalize(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	v := raw / NormalizationCeiling
	if v > 1 {
		return 1
	}
	return math.Round(v*1000) / 1000
}
