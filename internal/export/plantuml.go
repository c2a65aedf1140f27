package export

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"repogenome/internal/genome"
)

// renderPlantUML renders g as a component diagram, one package block per
// directory. Grounded on original_source/repogenome/export/plantuml.py's
// package-grouping-by-file-directory approach.
func renderPlantUML(g *genome.Genome) []byte {
	var b strings.Builder
	b.WriteString("@startuml\n!theme plain\n\n")

	packages := map[string][]genome.NodeId{}
	for _, id := range sortedNodeIds(g) {
		n := g.Nodes[id]
		dir := "root"
		if n.File != "" {
			dir = path.Dir(n.File)
			if dir == "." {
				dir = "root"
			}
		}
		packages[dir] = append(packages[dir], id)
	}

	pkgNames := make([]string, 0, len(packages))
	for pkg := range packages {
		pkgNames = append(pkgNames, pkg)
	}
	sort.Strings(pkgNames)

	for _, pkg := range pkgNames {
		fmt.Fprintf(&b, "package \"%s\" {\n", strings.ReplaceAll(pkg, "/", "."))
		for _, id := range packages[pkg] {
			n := g.Nodes[id]
			name := shortName(id)
			switch n.Type {
			case genome.NodeClass:
				fmt.Fprintf(&b, "  class %s\n", name)
			case genome.NodeFunction:
				fmt.Fprintf(&b, "  function %s\n", name)
			case genome.NodeFile:
				fmt.Fprintf(&b, "  file %s\n", name)
			default:
				fmt.Fprintf(&b, "  component %s\n", name)
			}
		}
		b.WriteString("}\n\n")
	}

	b.WriteString("' Relationships\n")
	for _, e := range g.Edges {
		arrow := "-->"
		lower := strings.ToLower(string(e.Type))
		if strings.Contains(lower, "depends") {
			arrow = "..>"
		}
		fmt.Fprintf(&b, "%s %s %s\n", shortName(e.From), arrow, shortName(e.To))
	}

	b.WriteString("\n@enduml\n")
	return []byte(b.String())
}
