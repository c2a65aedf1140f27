// Package merger implements the Merger (spec §4.5): the single component
// that owns Genome construction, folding the Structural Extractor's base
// graph together with the ordered outputs of the Auxiliary Subsystems
// into one validated Genome. Grounded on the teacher's own multi-source
// assembly step in cmd/ckb (where symbol, complexity, and SCIP fragments
// are combined before a single write), generalized here to the ordered,
// field-merge-by-specificity policy spec.md §4.5 spells out, and on
// original_source/repogenome/core/generator.py's post-merge risk and
// do-not-touch derivation (`_calculate_risk`, `_generate_do_not_touch`)
// for the two steps the auxiliary subsystem list leaves unowned.
package merger

import (
	"path"
	"sort"
	"strings"

	"repogenome/internal/analyzer"
	"repogenome/internal/genome"
)

// SubsystemOutputs collects the single-owner sections produced by the
// Auxiliary Subsystems (spec §4.4) for one merge. A nil map/slice means
// that subsystem was disabled for this run; the corresponding Genome
// section is simply left empty (spec §4.4 "subsystems must be
// individually disableable").
type SubsystemOutputs struct {
	Flows     []genome.Flow
	Concepts  map[genome.NodeId]genome.Concept
	History   map[genome.NodeId]genome.History
	Contracts map[string]genome.Contract
	Security  map[genome.NodeId]genome.Security
	TestEdges []genome.Edge
}

// Options configures policy the base spec leaves as an implementation
// choice: which file-path keywords mark a file "do not touch" absent an
// explicit criticality signal, mirroring generator.py's keyword list.
type Options struct {
	LegacyKeywords []string
}

// DefaultOptions returns the keyword list generator.py uses.
func DefaultOptions() Options {
	return Options{LegacyKeywords: []string{"legacy", "deprecated", "_old", "backup"}}
}

// Merger owns Genome construction end to end (spec §3 "Ownership and
// lifecycle": "the Merger exclusively owns the Genome value during a
// build or update").
type Merger struct {
	opts Options
}

// New returns a Merger with opts. Passing a zero Options selects
// DefaultOptions.
func New(opts Options) *Merger {
	if opts.LegacyKeywords == nil {
		opts = DefaultOptions()
	}
	return &Merger{opts: opts}
}

// BuildBaseGraph folds every per-file fragment plus resolved import edges
// into the base graph the extractor promises (spec §4.3): exactly the
// nodes/edges derivable from local per-file analysis, no subsystem data.
// files must already be in a deterministic order (the extractor sorts by
// File); that order is the "subsystem order" ties are broken by.
func BuildBaseGraph(files []*analyzer.FileAnalysis, importEdges []genome.Edge) *genome.Genome {
	g := genome.New()
	for _, fa := range files {
		for id, n := range fa.Nodes {
			if existing, ok := g.Nodes[id]; ok {
				g.Nodes[id] = mergeNode(existing, n)
			} else {
				g.Nodes[id] = n
			}
		}
		g.Edges = append(g.Edges, fa.Edges...)
	}
	g.Edges = append(g.Edges, importEdges...)
	g.Edges = dedupEdges(g.Edges)
	return g
}

// mergeNode combines two fragments claiming the same NodeId, field by
// field, with the most specific non-empty value winning; on a tie
// between two non-empty values the earlier one (by input order) wins
// (spec §4.5 rule 1).
func mergeNode(existing, incoming genome.Node) genome.Node {
	out := existing
	if out.Type == "" {
		out.Type = incoming.Type
	}
	if out.File == "" {
		out.File = incoming.File
	}
	if out.Language == "" {
		out.Language = incoming.Language
	}
	if out.Visibility == "" {
		out.Visibility = incoming.Visibility
	}
	if out.Summary == "" {
		out.Summary = incoming.Summary
	}
	if out.Criticality == 0 {
		out.Criticality = incoming.Criticality
	}
	return out
}

// dedupEdges enforces (from,to,type) uniqueness (spec §4.5 rule 2),
// keeping the first occurrence and producing a deterministic order.
func dedupEdges(edges []genome.Edge) []genome.Edge {
	seen := make(map[string]bool, len(edges))
	out := make([]genome.Edge, 0, len(edges))
	for _, e := range edges {
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Merge applies the ordered subsystem outputs to base, runs the
// compaction pass, derives risk/criticality/summary, and validates the
// result (spec §4.5 rules 3-5, §4.6). base is consumed; callers must not
// reuse it afterward. On invariant failure the prior Genome (not
// returned) remains the caller's authoritative one.
func (m *Merger) Merge(base *genome.Genome, out SubsystemOutputs) (*genome.Genome, error) {
	g := base

	g.Flows = out.Flows
	if out.Concepts != nil {
		g.Concepts = out.Concepts
	}
	if out.History != nil {
		g.History = out.History
	}
	if out.Contracts != nil {
		g.Contracts = out.Contracts
	}
	if out.Security != nil {
		g.Security = out.Security
	}
	g.Edges = dedupEdges(append(g.Edges, out.TestEdges...))

	return m.Recompute(g)
}

// Recompute reruns the merge-time derivation steps (entry-point
// detection, compaction, criticality, risk, summary) over an
// already-assembled Genome and validates the result. The Incremental
// Coordinator calls this after applying a GenomeDelta, since a delta's
// node/edge patch invalidates every one of these derived values just as
// much as a fresh merge would.
func (m *Merger) Recompute(g *genome.Genome) (*genome.Genome, error) {
	entries := entryPoints(g)
	compact(g, entries)

	deriveCriticality(g)
	g.Risk = deriveRisk(g)
	g.Summary = deriveSummary(g, entries, m.opts)

	if err := genome.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// entryPoints identifies nodes tagged as entry by any analyzer (spec
// §4.6): public functions with no incoming `calls` edge (exported HTTP
// handlers, CLI mains), functions literally named `main`/`__main__`
// regardless of visibility (a Go `func main` is unexported by Go's own
// casing rule but is always the program's entry), and file nodes that
// invoke a function at module scope, outside any function body — the
// shape tsanalyzer gives Python's `if __name__ == "__main__":` guard, a
// `calls` edge from the file node itself rather than from a symbol.
func entryPoints(g *genome.Genome) map[genome.NodeId]bool {
	idx := genome.BuildEdgeIndex(g)
	entries := make(map[genome.NodeId]bool)
	for id, n := range g.Nodes {
		if n.Type != genome.NodeFunction {
			continue
		}
		if isMainSymbol(id) {
			entries[id] = true
			entries[genome.FileNodeId(n.File)] = true
			continue
		}
		if n.Visibility != genome.VisibilityPublic {
			continue
		}
		hasCall := false
		for _, e := range idx.Incoming(id) {
			if e.Type == genome.EdgeCalls {
				hasCall = true
				break
			}
		}
		if !hasCall {
			entries[id] = true
		}
	}
	for id, n := range g.Nodes {
		if n.Type != genome.NodeFile {
			continue
		}
		for _, e := range idx.Outgoing(id) {
			if e.Type == genome.EdgeCalls {
				entries[id] = true
				break
			}
		}
	}
	return entries
}

// isMainSymbol reports whether id names a `main`/`__main__` symbol,
// stripping the file-stem prefix genome.SymbolNodeId adds.
func isMainSymbol(id genome.NodeId) bool {
	s := string(id)
	name := s
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		name = s[i+1:]
	}
	return name == "main" || name == "__main__"
}

// compact drops nodes with no incoming or outgoing edges unless they are
// files or entry points (spec §4.5 rule 4), and prunes every section
// that referenced a dropped node so the invariants stay satisfiable.
func compact(g *genome.Genome, entries map[genome.NodeId]bool) {
	idx := genome.BuildEdgeIndex(g)
	removed := make(map[genome.NodeId]bool)
	for id, n := range g.Nodes {
		if n.Type == genome.NodeFile || entries[id] {
			continue
		}
		if len(idx.Outgoing(id)) == 0 && len(idx.Incoming(id)) == 0 {
			removed[id] = true
		}
	}
	if len(removed) == 0 {
		return
	}
	for id := range removed {
		delete(g.Nodes, id)
		delete(g.History, id)
		delete(g.Security, id)
	}
	for cid, c := range g.Concepts {
		filtered := c.Nodes[:0:0]
		for _, ref := range c.Nodes {
			if !removed[ref] {
				filtered = append(filtered, ref)
			}
		}
		if len(filtered) == 0 {
			delete(g.Concepts, cid)
			continue
		}
		c.Nodes = filtered
		g.Concepts[cid] = c
	}
	for sig, c := range g.Contracts {
		if removed[genome.NodeId(sig)] {
			delete(g.Contracts, sig)
			continue
		}
		filtered := c.DependsOn[:0:0]
		for _, dep := range c.DependsOn {
			if !removed[dep] {
				filtered = append(filtered, dep)
			}
		}
		c.DependsOn = filtered
		g.Contracts[sig] = c
	}
}

// deriveCriticality assigns each node a structural-centrality score:
// call/import fan-in plus a bonus for public visibility, bounded to
// [0,1]. Grounded on generator.py's `_calculate_risk` fan-in term,
// narrowed to a pure structural signal since risk_score itself already
// layers churn and contract membership on top.
func deriveCriticality(g *genome.Genome) {
	idx := genome.BuildEdgeIndex(g)
	for id, n := range g.Nodes {
		fanIn := 0
		for _, e := range idx.Incoming(id) {
			if e.Type == genome.EdgeCalls || e.Type == genome.EdgeImports {
				fanIn++
			}
		}
		score := 0.6*minF(1, float64(fanIn)/10.0) + 0.0
		if n.Visibility == genome.VisibilityPublic {
			score += 0.4
		}
		n.Criticality = minF(1, score)
		g.Nodes[id] = n
	}
}

// deriveRisk implements generator.py's `_calculate_risk`: high fan-in,
// high churn, and public-API membership each add a bounded term, summed
// and capped at 1.
func deriveRisk(g *genome.Genome) map[genome.NodeId]genome.Risk {
	idx := genome.BuildEdgeIndex(g)
	publicSignatures := make(map[genome.NodeId]bool, len(g.Contracts))
	for sig := range g.Contracts {
		publicSignatures[genome.NodeId(sig)] = true
	}

	risks := make(map[genome.NodeId]genome.Risk)
	for id := range g.Nodes {
		var reasons []string
		score := 0.0

		fanIn := 0
		for _, e := range idx.Incoming(id) {
			if e.Type == genome.EdgeCalls || e.Type == genome.EdgeImports {
				fanIn++
			}
		}
		if fanIn > 5 {
			reasons = append(reasons, "high fan-in")
			score += minF(0.4, float64(fanIn)/20.0)
		}

		if h, ok := g.History[id]; ok && h.ChurnScore > 0.7 {
			reasons = append(reasons, "high churn")
			score += 0.3
		}

		if publicSignatures[id] {
			reasons = append(reasons, "public API")
			score += 0.2
		}

		if score > 0 {
			risks[id] = genome.Risk{RiskScore: minF(1, score), Reasons: reasons}
		}
	}
	return risks
}

// deriveSummary computes the whole Summary section from the merged
// Genome (spec §4.6): it is never accepted from a subsystem directly.
func deriveSummary(g *genome.Genome, entries map[genome.NodeId]bool, opts Options) genome.Summary {
	s := genome.Summary{}

	for id := range entries {
		s.EntryPoints = append(s.EntryPoints, id)
	}
	sort.Slice(s.EntryPoints, func(i, j int) bool { return s.EntryPoints[i] < s.EntryPoints[j] })

	s.CoreDomains = topConceptsByNodeCount(g.Concepts, 5)
	s.Hotspots = topHotspots(g.History, 5)
	s.DoNotTouch = doNotTouch(g, s.Hotspots, opts)
	s.ArchitecturalStyle = architecturalStyle(g)
	return s
}

func topConceptsByNodeCount(concepts map[genome.NodeId]genome.Concept, k int) []string {
	type entry struct {
		slug  string
		count int
	}
	var ranked []entry
	for id, c := range concepts {
		ranked = append(ranked, entry{slug: strings.TrimPrefix(string(id), genome.ConceptPrefix), count: len(c.Nodes)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].slug < ranked[j].slug
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]string, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, e.slug)
	}
	return out
}

func topHotspots(history map[genome.NodeId]genome.History, k int) []genome.NodeId {
	type entry struct {
		id    genome.NodeId
		churn float64
	}
	var ranked []entry
	for id, h := range history {
		if h.ChurnScore <= 0 {
			continue
		}
		ranked = append(ranked, entry{id: id, churn: h.ChurnScore})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].churn != ranked[j].churn {
			return ranked[i].churn > ranked[j].churn
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]genome.NodeId, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, e.id)
	}
	return out
}

// doNotTouch flags files matching a configured legacy keyword, or any
// node whose derived criticality exceeds 0.8, plus every declared
// hotspot (spec §4.6).
func doNotTouch(g *genome.Genome, hotspots []genome.NodeId, opts Options) []genome.NodeId {
	set := make(map[genome.NodeId]bool)
	for _, id := range hotspots {
		set[id] = true
	}
	for id, n := range g.Nodes {
		if n.Criticality > 0.8 {
			set[id] = true
			continue
		}
		lower := strings.ToLower(n.File)
		for _, kw := range opts.LegacyKeywords {
			if strings.Contains(lower, kw) {
				set[id] = true
				break
			}
		}
	}
	out := make([]genome.NodeId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// architecturalStyle infers a small closed set of tags from coarse
// node/edge shape, per spec §4.6's example ("HTTP route nodes ⇒
// API-First"). Since the closed NodeType set has no dedicated route
// kind, the API-First signal is a name/summary heuristic instead.
func architecturalStyle(g *genome.Genome) []string {
	var funcs, tests, configs int
	apiLike := false
	for id, n := range g.Nodes {
		switch n.Type {
		case genome.NodeFunction:
			funcs++
			name := strings.ToLower(path.Base(string(id)))
			if strings.Contains(name, "handler") || strings.Contains(n.Summary, "route") {
				apiLike = true
			}
		case genome.NodeTest:
			tests++
		case genome.NodeConfig:
			configs++
		}
	}

	var tags []string
	if apiLike {
		tags = append(tags, "API-First")
	}
	if funcs > 0 && float64(tests)/float64(funcs) > 0.3 {
		tags = append(tags, "Test-Driven")
	}
	if configs >= 5 {
		tags = append(tags, "Config-Driven")
	}
	return tags
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
