package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"repogenome/internal/genome"
)

// renderCSV renders g as a paired nodes.csv/edges.csv, the projection
// spreadsheet tools and pandas-style ad hoc analysis consume most
// directly. Not present in the original Python exporters (those cover
// GraphML/DOT/Cypher/PlantUML only); added because spec §6 names "paired
// node/edge CSVs" as one of the four additional representations.
func renderCSV(g *genome.Genome) (nodesCSV, edgesCSV []byte) {
	var nodesBuf, edgesBuf bytes.Buffer

	nw := csv.NewWriter(&nodesBuf)
	nw.Write([]string{"id", "type", "file", "language", "visibility", "summary", "criticality"})
	for _, id := range sortedNodeIds(g) {
		n := g.Nodes[id]
		nw.Write([]string{
			string(id),
			string(n.Type),
			n.File,
			n.Language,
			string(n.Visibility),
			n.Summary,
			fmt.Sprintf("%g", n.Criticality),
		})
	}
	nw.Flush()

	ew := csv.NewWriter(&edgesBuf)
	ew.Write([]string{"from", "to", "type"})
	for _, e := range g.Edges {
		ew.Write([]string{string(e.From), string(e.To), string(e.Type)})
	}
	ew.Flush()

	return nodesBuf.Bytes(), edgesBuf.Bytes()
}
