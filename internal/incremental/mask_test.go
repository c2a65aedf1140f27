package incremental

import "testing"

func TestComputeMaskEmptyChangeSet(t *testing.T) {
	mask := ComputeMask(ChangeSet{})
	if mask.Extractor || mask.FlowWeaver || mask.ChronoMap {
		t.Fatalf("expected zero-value mask for empty change set, got %+v", mask)
	}
}

func TestComputeMaskCodeFileModified(t *testing.T) {
	mask := ComputeMask(ChangeSet{Modified: []string{"internal/foo/foo.go"}})
	if !mask.Extractor || !mask.FlowWeaver || !mask.ContractLens || !mask.ChronoMap || !mask.SecretsLens {
		t.Fatalf("expected code-change mask to fire flow/contract/chrono/secrets, got %+v", mask)
	}
	if mask.IntentAtlas {
		t.Fatalf("modify-only change should not trigger IntentAtlas, got %+v", mask)
	}
}

func TestComputeMaskFileAddedTriggersIntentAtlas(t *testing.T) {
	mask := ComputeMask(ChangeSet{Added: []string{"internal/newpkg/new.go"}})
	if !mask.IntentAtlas {
		t.Fatalf("expected file add to trigger IntentAtlas, got %+v", mask)
	}
}

func TestComputeMaskTestFileTriggersTestGalaxy(t *testing.T) {
	mask := ComputeMask(ChangeSet{Modified: []string{"internal/foo/foo_test.go"}})
	if !mask.TestGalaxy {
		t.Fatalf("expected test file change to trigger TestGalaxy, got %+v", mask)
	}
}

func TestComputeMaskConfigOnlyChangeSkipsFlowWeaver(t *testing.T) {
	mask := ComputeMask(ChangeSet{Modified: []string{"config.yaml"}})
	if mask.FlowWeaver || mask.ContractLens {
		t.Fatalf("expected config-only change to skip flow/contract, got %+v", mask)
	}
	if !mask.Extractor || !mask.ChronoMap || !mask.SecretsLens {
		t.Fatalf("expected extractor/chrono/secrets to still fire, got %+v", mask)
	}
}
