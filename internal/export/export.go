// Package export renders a Genome as one of several lossy graph
// projections for tools outside this engine (Graphviz, Neo4j, PlantUML,
// GraphML-consuming viewers, spreadsheets). Grounded on the shape of the
// teacher's internal/export.Exporter (a struct wrapping format-specific
// render methods, driven by an Options value), retargeted from the
// teacher's LLM-text symbol export onto graph-structure projections
// (spec §6 "Export formats").
package export

import (
	"fmt"
	"sort"

	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// Format is the closed set of projection formats this package renders.
type Format string

const (
	FormatJSON     Format = "json"
	FormatGraphML  Format = "graphml"
	FormatDOT      Format = "dot"
	FormatCSV      Format = "csv"
	FormatCypher   Format = "cypher"
	FormatPlantUML Format = "plantuml"
)

// Result is the outcome of one Export call.
type Result struct {
	Format Format
	// Files maps a suffix-qualified filename to its rendered bytes. JSON,
	// GraphML, DOT, Cypher, and PlantUML each produce one file; CSV
	// produces two (nodes and edges).
	Files map[string][]byte
}

// Exporter renders Genome projections. It carries no state beyond the
// Genome itself; grounded on the teacher's Exporter struct pattern
// without the filesystem-walking behavior that pattern also carries,
// since this engine already owns the graph in memory.
type Exporter struct {
	Genome *genome.Genome
}

// New returns an Exporter over g.
func New(g *genome.Genome) *Exporter {
	return &Exporter{Genome: g}
}

// Export renders g in the requested format. basename is used to name the
// output file(s) without an extension.
func (e *Exporter) Export(format Format, basename string) (Result, error) {
	if basename == "" {
		basename = "repogenome"
	}
	switch format {
	case FormatJSON, "":
		data, err := genome.Save(e.Genome, genome.ModeStandard, false)
		if err != nil {
			return Result{}, rgerrors.Wrap(rgerrors.IoError, "encoding json export", err)
		}
		return Result{Format: FormatJSON, Files: map[string][]byte{basename + ".json": data}}, nil
	case FormatGraphML:
		return Result{Format: format, Files: map[string][]byte{basename + ".graphml": renderGraphML(e.Genome)}}, nil
	case FormatDOT:
		return Result{Format: format, Files: map[string][]byte{basename + ".dot": renderDOT(e.Genome)}}, nil
	case FormatCSV:
		nodesCSV, edgesCSV := renderCSV(e.Genome)
		return Result{Format: format, Files: map[string][]byte{
			basename + ".nodes.csv": nodesCSV,
			basename + ".edges.csv": edgesCSV,
		}}, nil
	case FormatCypher:
		return Result{Format: format, Files: map[string][]byte{basename + ".cypher": renderCypher(e.Genome)}}, nil
	case FormatPlantUML:
		return Result{Format: format, Files: map[string][]byte{basename + ".puml": renderPlantUML(e.Genome)}}, nil
	default:
		return Result{}, rgerrors.New(rgerrors.InvalidInput, fmt.Sprintf("unknown export format %q", format))
	}
}

// shortName returns the last path/qualifier segment of id, used as a
// display label across every projection (mirrors the original exporters'
// "short name" convention of splitting on path separators).
func shortName(id genome.NodeId) string {
	s := string(id)
	last := s
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' || s[i] == '.' {
			last = s[i+1:]
			break
		}
	}
	if last == "" {
		return s
	}
	return last
}

// sortedNodeIds returns g's node ids in a stable, deterministic order so
// every projection is reproducible across runs.
func sortedNodeIds(g *genome.Genome) []genome.NodeId {
	ids := make([]genome.NodeId, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
