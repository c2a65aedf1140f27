// Package incremental implements the Incremental Coordinator (spec
// §4.7): fingerprint-based change detection, subsystem-mask selection,
// bounded re-analysis, and atomic delta application to an existing
// Genome. Grounded on the teacher's own internal/incremental package
// (detector.go's change-set shape, updater.go's transactional delta
// apply), retargeted from SCIP symbol deltas onto Genome deltas.
package incremental

import "repogenome/internal/genome"

// ChangeType is how one file changed between two runs.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// ChangeSet is the output of change detection (spec §4.7 step 1).
type ChangeSet struct {
	Added    []string
	Modified []string
	Removed  []string
}

// Files returns every changed path except removals, the bounded set the
// extractor re-analyzes (spec §4.7 step 3).
func (c ChangeSet) Files() []string {
	out := make([]string, 0, len(c.Added)+len(c.Modified))
	out = append(out, c.Added...)
	out = append(out, c.Modified...)
	return out
}

// IsEmpty reports whether nothing changed.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Removed) == 0
}

// SubsystemMask says which auxiliary subsystems must re-run for a given
// ChangeSet (spec §4.7 step 2, normative rules).
type SubsystemMask struct {
	Extractor    bool // C3 always runs on the changed file set itself
	FlowWeaver   bool
	IntentAtlas  bool
	ChronoMap    bool
	ContractLens bool
	TestGalaxy   bool
	SecretsLens  bool
}

// GenomeDelta is the atomic unit incremental updates apply to a Genome
// (spec §4.7 step 4). Apply order is fixed: removes, replaces, adds;
// edges last.
type GenomeDelta struct {
	NodesRemove  []genome.NodeId
	NodesReplace map[genome.NodeId]genome.Node
	NodesAdd     map[genome.NodeId]genome.Node
	EdgesRemove  []genome.Edge
	EdgesAdd     []genome.Edge

	// SectionPatches replaces single-owner sections wholesale, mirroring
	// the Merger's own single-owner-section rule (spec §4.5 rule 3):
	// there is no partial patch for flows/concepts/history/contracts/
	// security, only "this subsystem re-ran, here is its new output".
	// A nil field means that subsystem did not re-run this update; a
	// non-nil-but-empty field means it ran and produced nothing.
	Flows     []genome.Flow
	Concepts  map[genome.NodeId]genome.Concept
	History   map[genome.NodeId]genome.History
	Contracts map[string]genome.Contract
	Security  map[genome.NodeId]genome.Security
}
