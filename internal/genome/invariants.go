package genome

import (
	"fmt"
	"sort"

	"repogenome/internal/rgerrors"
)

// Validate checks the six global invariants (spec §3 "Invariants") and
// returns a wrapped rgerrors.InvariantViolation naming every violation
// found, or nil if g is consistent.
func Validate(g *Genome) error {
	var problems []string

	problems = append(problems, checkEdgeClosure(g)...)
	problems = append(problems, checkBoundedScalars(g)...)
	problems = append(problems, checkEdgeUniqueness(g)...)
	problems = append(problems, checkFileDefinesSymbols(g)...)
	problems = append(problems, checkSchemaVersion(g)...)
	problems = append(problems, checkConceptReferences(g)...)

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return rgerrors.New(rgerrors.InvariantViolation, fmt.Sprintf("genome failed %d invariant check(s)", len(problems))).
		WithDetails(map[string]interface{}{"violations": problems})
}

// checkEdgeClosure requires every edge endpoint to resolve to a declared
// node, a virtual external node, or a concept node.
func checkEdgeClosure(g *Genome) []string {
	var out []string
	resolves := func(id NodeId) bool {
		if IsVirtual(id) {
			return true
		}
		_, ok := g.Nodes[id]
		return ok
	}
	for _, e := range g.Edges {
		if !resolves(e.From) {
			out = append(out, fmt.Sprintf("edge closure: dangling from-node %q (%s)", e.From, e.Type))
		}
		if !resolves(e.To) {
			out = append(out, fmt.Sprintf("edge closure: dangling to-node %q (%s)", e.To, e.Type))
		}
	}
	return out
}

// checkBoundedScalars requires every declared scalar in [0,1].
func checkBoundedScalars(g *Genome) []string {
	var out []string
	inRange := func(v float64) bool { return v >= 0 && v <= 1 }
	for id, n := range g.Nodes {
		if !inRange(n.Criticality) {
			out = append(out, fmt.Sprintf("bounded scalar: node %q criticality=%v out of [0,1]", id, n.Criticality))
		}
	}
	for i, f := range g.Flows {
		if !inRange(f.Confidence) {
			out = append(out, fmt.Sprintf("bounded scalar: flow[%d] confidence=%v out of [0,1]", i, f.Confidence))
		}
	}
	for id, h := range g.History {
		if !inRange(h.ChurnScore) {
			out = append(out, fmt.Sprintf("bounded scalar: history %q churn_score=%v out of [0,1]", id, h.ChurnScore))
		}
	}
	for id, r := range g.Risk {
		if !inRange(r.RiskScore) {
			out = append(out, fmt.Sprintf("bounded scalar: risk %q risk_score=%v out of [0,1]", id, r.RiskScore))
		}
	}
	for sig, c := range g.Contracts {
		if !inRange(c.BreakingChangeRisk) {
			out = append(out, fmt.Sprintf("bounded scalar: contract %q breaking_change_risk=%v out of [0,1]", sig, c.BreakingChangeRisk))
		}
	}
	for id, s := range g.Security {
		if !inRange(s.Severity) {
			out = append(out, fmt.Sprintf("bounded scalar: security %q severity=%v out of [0,1]", id, s.Severity))
		}
	}
	return out
}

// checkEdgeUniqueness requires (from,to,type) to be unique across Edges.
func checkEdgeUniqueness(g *Genome) []string {
	seen := make(map[string]bool, len(g.Edges))
	var out []string
	for _, e := range g.Edges {
		k := e.Key()
		if seen[k] {
			out = append(out, fmt.Sprintf("edge uniqueness: duplicate edge %s -[%s]-> %s", e.From, e.Type, e.To))
			continue
		}
		seen[k] = true
	}
	return out
}

// checkFileDefinesSymbols requires every symbol-level node (function,
// class, test) to be reachable via a `defines` edge from some file node.
// File-level node types (file, config, resource) stand for the file
// itself rather than a child of one, and concept nodes are groupings, so
// none of them need an incoming defines edge.
func checkFileDefinesSymbols(g *Genome) []string {
	defined := make(map[NodeId]bool)
	for _, e := range g.Edges {
		if e.Type == EdgeDefines {
			defined[e.To] = true
		}
	}
	var out []string
	for id, n := range g.Nodes {
		switch n.Type {
		case NodeFunction, NodeClass, NodeTest:
			if !defined[id] {
				out = append(out, fmt.Sprintf("file defines: symbol node %q has no incoming defines edge", id))
			}
		}
	}
	return out
}

// checkSchemaVersion requires the genome's major schema version not to
// exceed the highest version this engine understands.
func checkSchemaVersion(g *Genome) []string {
	if g.Metadata.SchemaVersion > CurrentSchemaVersion {
		return []string{fmt.Sprintf("schema version: genome schema_version=%d exceeds supported major version %d",
			g.Metadata.SchemaVersion, CurrentSchemaVersion)}
	}
	return nil
}

// checkConceptReferences requires every node referenced by a Concept to
// resolve to a declared or virtual node.
func checkConceptReferences(g *Genome) []string {
	var out []string
	for cid, c := range g.Concepts {
		for _, ref := range c.Nodes {
			if IsVirtual(ref) {
				continue
			}
			if _, ok := g.Nodes[ref]; !ok {
				out = append(out, fmt.Sprintf("concept reference: concept %q references unknown node %q", cid, ref))
			}
		}
	}
	return out
}
