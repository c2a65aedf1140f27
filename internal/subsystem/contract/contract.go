// Package contract implements ContractLens (spec §4.4): it identifies
// public-API surface nodes and scores their breaking-change risk, using
// the formula resolved in SPEC_FULL.md's Open Questions section
// (min(1, 0.15*incoming_calls + 0.35*is_public + 0.5*signature_delta)),
// grounded on the teacher's own breaking-change analyzer
// (internal/breaking/*.go) for the shape of a contract-risk report.
package contract

import (
	"repogenome/internal/genome"
)

// SignatureDelta reports whether a node's public signature changed since
// the last recorded genome, supplied by the Merger from the previous
// generation's Contracts map (0 when there is no prior genome to compare
// against, e.g. a first scan).
type SignatureDelta func(sig string) float64

// Weave produces a Contract entry for every public function/class node,
// keyed by its API signature string ("<file-stem>.<qualified-name>").
func Weave(g *genome.Genome, delta SignatureDelta) map[string]genome.Contract {
	idx := genome.BuildEdgeIndex(g)
	contracts := make(map[string]genome.Contract)

	for id, n := range g.Nodes {
		if n.Visibility != genome.VisibilityPublic {
			continue
		}
		if n.Type != genome.NodeFunction && n.Type != genome.NodeClass {
			continue
		}
		sig := string(id)
		incoming := idx.Incoming(id)
		dependsOn := make([]genome.NodeId, 0, len(incoming))
		for _, e := range incoming {
			dependsOn = append(dependsOn, e.From)
		}

		sigDelta := 0.0
		if delta != nil {
			sigDelta = delta(sig)
		}
		contracts[sig] = genome.Contract{
			DependsOn:          dependsOn,
			BreakingChangeRisk: risk(len(incoming), true, sigDelta),
		}
	}
	return contracts
}

// risk implements min(1, 0.15*incoming_calls + 0.35*is_public + 0.5*signature_delta).
// incoming_calls is the raw count of incoming call/reference edges;
// is_public is 1.0 for the only nodes Weave scores. The min(1, ...) is
// the only clamp — a handful of incoming calls alone can already
// saturate the score, by design.
func risk(incomingCalls int, isPublic bool, signatureDelta float64) float64 {
	publicTerm := 0.0
	if isPublic {
		publicTerm = 1
	}
	if signatureDelta < 0 {
		signatureDelta = 0
	}
	if signatureDelta > 1 {
		signatureDelta = 1
	}
	v := 0.15*float64(incomingCalls) + 0.35*publicTerm + 0.5*signatureDelta
	if v > 1 {
		return 1
	}
	return v
}
