package mcp

import (
	"path/filepath"
	"testing"

	"repogenome/internal/engine"
	"repogenome/internal/genome"
	"repogenome/internal/storage"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.Open(dir, filepath.Join(dir, "cache.db"), nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	eng := engine.New(engine.DefaultOptions(dir), nil)
	s := NewServer("test", eng, db, nil)

	g := genome.New()
	g.Metadata.SchemaVersion = genome.CurrentSchemaVersion
	g.Nodes[genome.NodeId("main.go")] = genome.Node{Type: genome.NodeFile, File: "main.go", Language: "go"}
	g.Nodes[genome.NodeId("main.Run")] = genome.Node{Type: genome.NodeFunction, File: "main.go", Language: "go", Criticality: 0.4}
	g.Edges = append(g.Edges, genome.Edge{From: "main.go", To: "main.Run", Type: genome.EdgeDefines})
	s.LoadGenome(g)

	return s
}

func TestCallToolBeforeLoadIsBlockedByContract(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.Open(dir, filepath.Join(dir, "cache.db"), nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	defer db.Close()

	eng := engine.New(engine.DefaultOptions(dir), nil)
	s := NewServer("test", eng, db, nil)

	_, err = s.handleCallTool(map[string]interface{}{
		"name":      "stats",
		"arguments": map[string]interface{}{"session_id": "s1"},
	})
	if err == nil {
		t.Fatalf("expected a contract violation before any resource has been read")
	}
}

func TestCallToolStats(t *testing.T) {
	s := testServer(t)

	result, err := s.handleCallTool(map[string]interface{}{
		"name":      "stats",
		"arguments": map[string]interface{}{"session_id": "s1"},
	})
	if err != nil {
		t.Fatalf("handleCallTool(stats): %v", err)
	}
	envelope, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("expected a content envelope, got %T", result)
	}
	if _, ok := envelope["content"]; !ok {
		t.Fatalf("expected a content field in %+v", envelope)
	}
}

func TestImpactArmsPendingUpdateGate(t *testing.T) {
	s := testServer(t)
	sess, err := s.contract.Ensure("s2")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := s.contract.MarkLoaded(sess); err != nil {
		t.Fatalf("MarkLoaded: %v", err)
	}

	if _, err := s.toolImpact(sess, map[string]interface{}{
		"ids": []interface{}{"main.go"},
	}); err != nil {
		t.Fatalf("toolImpact: %v", err)
	}

	sess, err = s.sessions.Get("s2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !sess.PendingUpdate {
		t.Fatalf("expected impact() to arm the pending-update gate")
	}

	if violation := s.contract.Enforce("get_node", sess); violation == nil {
		t.Fatalf("expected get_node to be blocked while an update is pending")
	}
	if violation := s.contract.Enforce("update", sess); violation != nil {
		t.Fatalf("expected update to remain callable while pending: %v", violation)
	}
}

func TestReadCurrentResourceMarksSessionLoaded(t *testing.T) {
	s := testServer(t)
	sess, err := s.contract.Ensure("s3")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if sess.ContractState != StateUnloaded {
		t.Fatalf("expected a fresh session to start unloaded, got %s", sess.ContractState)
	}

	if _, err := s.handleResourceRead(sess, uriScheme+"current/brief"); err != nil {
		t.Fatalf("handleResourceRead: %v", err)
	}

	sess, err = s.sessions.Get("s3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.ContractState != StateClean {
		t.Fatalf("expected reading current/brief to clear unloaded, got %s", sess.ContractState)
	}
}
