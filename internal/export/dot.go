package export

import (
	"fmt"
	"strings"

	"repogenome/internal/genome"
)

// renderDOT renders g as a Graphviz digraph. Grounded on
// original_source/repogenome/export/dot.py (a node-then-edge line
// builder with dedicated id/label escaping helpers).
func renderDOT(g *genome.Genome) []byte {
	var b strings.Builder
	b.WriteString("digraph RepoGenome {\n")
	b.WriteString("  rankdir=\"LR\";\n")
	b.WriteString("  node [shape=box];\n")

	for _, id := range sortedNodeIds(g) {
		n := g.Nodes[id]
		label := shortName(id)
		if n.Type != "" {
			label += "\\n(" + string(n.Type) + ")"
		}
		fmt.Fprintf(&b, "  \"%s\" [label=\"%s\"];\n", dotEscapeID(id), dotEscapeLabel(label))
	}

	for _, e := range g.Edges {
		from, to := dotEscapeID(e.From), dotEscapeID(e.To)
		if e.Type != "" {
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [label=\"%s\"];\n", from, to, dotEscapeLabel(string(e.Type)))
		} else {
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\";\n", from, to)
		}
	}

	b.WriteString("}\n")
	return []byte(b.String())
}

func dotEscapeID(id genome.NodeId) string {
	r := strings.NewReplacer("\\", "_", "/", "_", "-", "_", ".", "_", " ", "_", "\"", "\\\"")
	return r.Replace(string(id))
}

func dotEscapeLabel(label string) string {
	r := strings.NewReplacer("\"", "\\\"", "\n", "\\n")
	return r.Replace(label)
}
