package incremental

import (
	"strings"

	"repogenome/internal/classify"
)

// ComputeMask implements spec §4.7 step 2's normative subsystem-mask
// rules from a ChangeSet, without requiring the bounded re-analysis to
// have already run first: a changed code file is what produces
// defines/imports/calls edges, so "did defines/imports/calls change" is
// answered from the file's classified kind rather than a post-hoc edge
// diff.
func ComputeMask(cs ChangeSet) SubsystemMask {
	if cs.IsEmpty() {
		return SubsystemMask{}
	}

	var codeChanged, testShapedChanged bool
	for _, f := range cs.Files() {
		if classify.Classify(f, nil).Capability == classify.CapabilityTreeSitter {
			codeChanged = true
		}
		if looksLikeTestPath(f) {
			testShapedChanged = true
		}
	}

	return SubsystemMask{
		Extractor:    true,
		FlowWeaver:   codeChanged,
		ContractLens: codeChanged,
		IntentAtlas:  len(cs.Added) > 0 || len(cs.Removed) > 0,
		ChronoMap:    true,
		TestGalaxy:   codeChanged || testShapedChanged,
		SecretsLens:  true,
	}
}

func looksLikeTestPath(path string) bool {
	base := strings.ToLower(path)
	for _, marker := range []string{"_test.", "test_", ".spec.", ".test."} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}
