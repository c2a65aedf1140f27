package export

import (
	"fmt"
	"strings"

	"repogenome/internal/genome"
)

// renderGraphML renders g as GraphML, the format most graph-visualization
// tools (yEd, Gephi) import directly. Grounded on
// original_source/repogenome/export/graphml.py's key/graph/node/edge
// element structure, translated line-for-line into Go string building.
func renderGraphML(g *genome.Genome) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<graphml xmlns="http://graphml.graphdrawing.org/xmlns"` + "\n")
	b.WriteString(`          xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` + "\n")
	b.WriteString(`          xsi:schemaLocation="http://graphml.graphdrawing.org/xmlns` + "\n")
	b.WriteString(`          http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd">` + "\n")
	b.WriteString(`  <key id="type" for="node" attr.name="type" attr.type="string"/>` + "\n")
	b.WriteString(`  <key id="language" for="node" attr.name="language" attr.type="string"/>` + "\n")
	b.WriteString(`  <key id="file" for="node" attr.name="file" attr.type="string"/>` + "\n")
	b.WriteString(`  <key id="edge_type" for="edge" attr.name="type" attr.type="string"/>` + "\n")
	b.WriteString(`  <graph id="G" edgedefault="directed">` + "\n")

	for _, id := range sortedNodeIds(g) {
		n := g.Nodes[id]
		fmt.Fprintf(&b, "    <node id=\"%s\">\n", xmlEscape(string(id)))
		fmt.Fprintf(&b, "      <data key=\"type\">%s</data>\n", xmlEscape(string(n.Type)))
		if n.Language != "" {
			fmt.Fprintf(&b, "      <data key=\"language\">%s</data>\n", xmlEscape(n.Language))
		}
		if n.File != "" {
			fmt.Fprintf(&b, "      <data key=\"file\">%s</data>\n", xmlEscape(n.File))
		}
		b.WriteString("    </node>\n")
	}

	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    <edge source=\"%s\" target=\"%s\">\n", xmlEscape(string(e.From)), xmlEscape(string(e.To)))
		fmt.Fprintf(&b, "      <data key=\"edge_type\">%s</data>\n", xmlEscape(string(e.Type)))
		b.WriteString("    </edge>\n")
	}

	b.WriteString("  </graph>\n</graphml>\n")
	return []byte(b.String())
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	return r.Replace(s)
}
