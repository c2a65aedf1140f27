package incremental

import (
	"context"

	"repogenome/internal/analyzer"
	"repogenome/internal/capability"
	"repogenome/internal/extractor"
	"repogenome/internal/genome"
	"repogenome/internal/merger"
	"repogenome/internal/rgerrors"
)

// Coordinator implements the Incremental Coordinator (spec §4.7):
// change detection, subsystem masking, bounded re-analysis, and atomic
// delta application, wired around the same FilesystemSource/Registry/
// Merger the initial full scan uses.
type Coordinator struct {
	FS       capability.FilesystemSource
	Registry *analyzer.Registry
	Logger   capability.Logger
	Merger   *merger.Merger
	Root     string
	Ignore   []string
	Workers  int

	// Auxiliary, one per masked subsystem. Each is optional; a nil entry
	// behaves as if that subsystem never fires (its prior section is
	// carried over unchanged).
	FlowWeaver   func(ctx context.Context, g *genome.Genome) []genome.Flow
	IntentAtlas  func(ctx context.Context, g *genome.Genome) map[genome.NodeId]genome.Concept
	ChronoMap    func(ctx context.Context, g *genome.Genome) map[genome.NodeId]genome.History
	ContractLens func(ctx context.Context, g *genome.Genome) map[string]genome.Contract
	TestGalaxy   func(ctx context.Context, g *genome.Genome) []genome.Edge
	SecretsLens  func(ctx context.Context, changed []string) map[genome.NodeId]genome.Security
}

// Run detects changes against prior, re-extracts the bounded set of
// touched files, re-runs whichever auxiliary subsystems the mask selects,
// and applies the result as one atomic GenomeDelta. It returns prior
// unchanged (with an empty ChangeSet) when nothing changed.
func (c *Coordinator) Run(ctx context.Context, prior *genome.Genome) (*genome.Genome, ChangeSet, error) {
	if prior == nil {
		return nil, ChangeSet{}, rgerrors.New(rgerrors.InvalidInput, "incremental run requires a prior genome")
	}

	cs, freshFingerprints, err := DetectChanges(ctx, c.FS, c.Root, c.Ignore, prior)
	if err != nil {
		return nil, cs, err
	}
	if cs.IsEmpty() {
		return prior, cs, nil
	}
	mask := ComputeMask(cs)

	touched := changedOrRemovedNodeIds(prior, append(append([]string{}, cs.Modified...), cs.Removed...))

	delta := GenomeDelta{
		NodesRemove: touched,
		NodesAdd:    map[genome.NodeId]genome.Node{},
	}

	// Every node touched by an add/modify/remove takes its old edges with
	// it, whether or not there is anything left to re-extract (a pure
	// removal has nothing to add back).
	delta.EdgesRemove = edgesTouching(prior, touched)

	if mask.Extractor && len(cs.Files()) > 0 {
		scoped := newScopedFS(c.FS, cs.Files())
		spider := extractor.New(scoped, c.Registry, c.Logger)
		result, err := spider.Scan(ctx, c.Root, extractor.Options{Workers: c.Workers, IgnorePatterns: c.Ignore})
		if err != nil {
			return nil, cs, err
		}
		extractor.ResolveImports(result.Files)

		rebuilt := merger.BuildBaseGraph(result.Files, nil)
		for id, n := range rebuilt.Nodes {
			delta.NodesAdd[id] = n
		}
		delta.EdgesAdd = rebuilt.Edges
	}

	// Build a working copy against which the masked subsystems see
	// this update's node/edge changes before their section is derived.
	working, err := ApplyDelta(c.Merger, prior, GenomeDelta{
		NodesRemove: delta.NodesRemove,
		NodesAdd:    delta.NodesAdd,
		EdgesRemove: delta.EdgesRemove,
		EdgesAdd:    delta.EdgesAdd,
	})
	if err != nil {
		return nil, cs, err
	}

	if mask.FlowWeaver && c.FlowWeaver != nil {
		delta.Flows = c.FlowWeaver(ctx, working)
	}
	if mask.IntentAtlas && c.IntentAtlas != nil {
		delta.Concepts = c.IntentAtlas(ctx, working)
	}
	if mask.ChronoMap && c.ChronoMap != nil {
		delta.History = c.ChronoMap(ctx, working)
	}
	if mask.ContractLens && c.ContractLens != nil {
		delta.Contracts = c.ContractLens(ctx, working)
	}
	if mask.TestGalaxy && c.TestGalaxy != nil {
		delta.EdgesAdd = append(delta.EdgesAdd, c.TestGalaxy(ctx, working)...)
	}
	if mask.SecretsLens && c.SecretsLens != nil {
		delta.Security = c.SecretsLens(ctx, cs.Files())
	}

	next, err := ApplyDelta(c.Merger, prior, delta)
	if err != nil {
		return nil, cs, err
	}
	next.Metadata.Fingerprints = freshFingerprints
	next.Metadata.RepoHash = genome.ComputeRepoHash(freshFingerprints)
	return next, cs, nil
}

// changedOrRemovedNodeIds collects every node in prior belonging to one
// of the given file paths: the file node itself and every symbol it
// defines. These are exactly the ids a re-extraction of that file
// invalidates.
func changedOrRemovedNodeIds(prior *genome.Genome, paths []string) []genome.NodeId {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	var out []genome.NodeId
	for id, n := range prior.Nodes {
		if set[n.File] {
			out = append(out, id)
		}
	}
	return out
}

// edgesTouching returns every edge in prior whose endpoint is one of the
// given node ids, so a re-extraction can drop stale edges before adding
// fresh ones for the same files.
func edgesTouching(prior *genome.Genome, ids []genome.NodeId) []genome.Edge {
	set := make(map[genome.NodeId]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	var out []genome.Edge
	for _, e := range prior.Edges {
		if set[e.From] || set[e.To] {
			out = append(out, e)
		}
	}
	return out
}
