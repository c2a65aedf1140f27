package export

import (
	"fmt"
	"strings"

	"repogenome/internal/genome"
)

// renderCypher renders g as a Neo4j import script: one CREATE per node,
// then MATCH/CREATE relationship statements. Grounded on
// original_source/repogenome/export/cypher.py, adapted to Node's fixed Go
// struct fields in place of the original's dynamic property dict.
func renderCypher(g *genome.Genome) []byte {
	var b strings.Builder
	b.WriteString("// Neo4j Cypher export from RepoGenome\n")
	b.WriteString("// Run this script in Neo4j to import the graph\n\n")

	for _, id := range sortedNodeIds(g) {
		n := g.Nodes[id]
		label := cypherLabel(n.Type)
		varName := cypherVar(id)

		var props []string
		props = append(props, fmt.Sprintf("id: '%s'", cypherEscape(string(id))))
		if n.File != "" {
			props = append(props, fmt.Sprintf("file: '%s'", cypherEscape(n.File)))
		}
		if n.Language != "" {
			props = append(props, fmt.Sprintf("language: '%s'", cypherEscape(n.Language)))
		}
		if n.Visibility != "" {
			props = append(props, fmt.Sprintf("visibility: '%s'", cypherEscape(string(n.Visibility))))
		}
		props = append(props, fmt.Sprintf("criticality: %g", n.Criticality))

		fmt.Fprintf(&b, "CREATE (n%s:%s {%s});\n", varName, label, strings.Join(props, ", "))
	}

	b.WriteString("\n")
	for _, e := range g.Edges {
		fromID := cypherEscape(string(e.From))
		toID := cypherEscape(string(e.To))
		relType := strings.ToUpper(string(e.Type))
		if relType == "" {
			relType = "RELATES_TO"
		}
		fmt.Fprintf(&b, "MATCH (a), (b) WHERE a.id = '%s' AND b.id = '%s' CREATE (a)-[:%s]->(b);\n", fromID, toID, relType)
	}

	return []byte(b.String())
}

func cypherLabel(t genome.NodeType) string {
	if t == "" {
		return "Node"
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

func cypherVar(id genome.NodeId) string {
	var b strings.Builder
	for _, c := range string(id) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func cypherEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "'", "\\'")
	return r.Replace(s)
}
