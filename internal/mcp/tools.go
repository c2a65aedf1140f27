package mcp

import (
	rgcontext "repogenome/internal/context"
	"repogenome/internal/export"
	"repogenome/internal/genome"
	"repogenome/internal/query"
	"repogenome/internal/rgerrors"
	"repogenome/internal/storage"
)

// Tool describes one callable tool for tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// registerTools wires every named tool from spec §6 into s.tools, each a
// method value closing over s the way the teacher's RegisterTools does.
func (s *Server) registerTools() {
	s.tools["scan"] = s.toolScan
	s.tools["update"] = s.toolUpdate
	s.tools["validate"] = s.toolValidate
	s.tools["query"] = s.toolFilter
	s.tools["filter"] = s.toolFilter
	s.tools["get_node"] = s.toolGetNode
	s.tools["search"] = s.toolSearch
	s.tools["dependencies"] = s.toolDependencies
	s.tools["stats"] = s.toolStats
	s.tools["export"] = s.toolExport
	s.tools["impact"] = s.toolImpact
	s.tools["compare"] = s.toolCompare
	s.tools["find_path"] = s.toolFindPath
	s.tools["build_context"] = s.toolBuildContext
	s.tools["explain_context"] = s.toolExplainContext
	s.tools["get_context_skeleton"] = s.toolGetContextSkeleton
	s.tools["get_context_feedback"] = s.toolGetContextFeedback
	s.tools["set_context_session"] = s.toolSetContextSession
}

func (s *Server) toolDefinitions() []Tool {
	return []Tool{
		{Name: "scan", Description: "Run a full structural, behavioral, temporal, and semantic scan of the repository.",
			InputSchema: objectSchema(map[string]interface{}{})},
		{Name: "update", Description: "Re-analyze changed files and merge an incremental delta into the current Genome.",
			InputSchema: objectSchema(map[string]interface{}{"reason": map[string]interface{}{"type": "string"}})},
		{Name: "validate", Description: "Check the current Genome against its structural invariants.",
			InputSchema: objectSchema(map[string]interface{}{})},
		{Name: "query", Description: "Run a free-text or structured predicate query over Genome nodes.",
			InputSchema: objectSchema(map[string]interface{}{
				"query": map[string]interface{}{"type": "string"},
			})},
		{Name: "filter", Description: "Filter Genome nodes by a structured predicate tree.",
			InputSchema: objectSchema(map[string]interface{}{
				"predicate": map[string]interface{}{"type": "object"},
			})},
		{Name: "get_node", Description: "Fetch one node plus its incident edges by id.",
			InputSchema: objectSchema(map[string]interface{}{"id": map[string]interface{}{"type": "string"}}, "id")},
		{Name: "search", Description: "Convenience search combining free text with type/language/file filters.",
			InputSchema: objectSchema(map[string]interface{}{
				"query": map[string]interface{}{"type": "string"},
				"node_type": map[string]interface{}{"type": "string"},
				"language": map[string]interface{}{"type": "string"},
				"file_pattern": map[string]interface{}{"type": "string"},
				"limit": map[string]interface{}{"type": "integer"},
			})},
		{Name: "dependencies", Description: "Walk the dependency graph outward/inward from a node.",
			InputSchema: objectSchema(map[string]interface{}{
				"id": map[string]interface{}{"type": "string"},
				"direction": map[string]interface{}{"type": "string"},
				"max_depth": map[string]interface{}{"type": "integer"},
			}, "id")},
		{Name: "stats", Description: "Return aggregate counts and distributions over the current Genome.",
			InputSchema: objectSchema(map[string]interface{}{})},
		{Name: "export", Description: "Export the current Genome as JSON or a lossy graph projection (graphml, dot, csv, cypher, plantuml).",
			InputSchema: objectSchema(map[string]interface{}{
				"format": map[string]interface{}{"type": "string"},
				"basename": map[string]interface{}{"type": "string"},
			}, "format")},
		{Name: "impact", Description: "Compute the blast radius of editing one or more nodes before making a change.",
			InputSchema: objectSchema(map[string]interface{}{
				"ids": map[string]interface{}{"type": "array"},
			}, "ids")},
		{Name: "compare", Description: "Diff two nodes field by field.",
			InputSchema: objectSchema(map[string]interface{}{
				"a": map[string]interface{}{"type": "string"},
				"b": map[string]interface{}{"type": "string"},
				"fields": map[string]interface{}{"type": "array"},
			}, "a", "b")},
		{Name: "find_path", Description: "Find the shortest path between two nodes over selected edge types.",
			InputSchema: objectSchema(map[string]interface{}{
				"from": map[string]interface{}{"type": "string"},
				"to": map[string]interface{}{"type": "string"},
				"edge_types": map[string]interface{}{"type": "array"},
				"max_len": map[string]interface{}{"type": "integer"},
			}, "from", "to")},
		{Name: "build_context", Description: "Assemble a goal-driven, token-budgeted context over the Genome.",
			InputSchema: objectSchema(map[string]interface{}{
				"goal": map[string]interface{}{"type": "string"},
				"budget_tokens": map[string]interface{}{"type": "integer"},
				"must_include": map[string]interface{}{"type": "array"},
				"exclude": map[string]interface{}{"type": "array"},
			}, "goal")},
		{Name: "explain_context", Description: "Return the decision trace behind a previously built context.",
			InputSchema: objectSchema(map[string]interface{}{
				"context_id": map[string]interface{}{"type": "string"},
			}, "context_id")},
		{Name: "get_context_skeleton", Description: "Return the low-latency first page of a context: entry points, top concepts, folded clusters.",
			InputSchema: objectSchema(map[string]interface{}{
				"goal": map[string]interface{}{"type": "string"},
			}, "goal")},
		{Name: "get_context_feedback", Description: "Return hit/miss counters for a previously built context.",
			InputSchema: objectSchema(map[string]interface{}{
				"context_id": map[string]interface{}{"type": "string"},
			}, "context_id")},
		{Name: "set_context_session", Description: "Persist client-supplied facts and pinned node ids for future build_context calls.",
			InputSchema: objectSchema(map[string]interface{}{
				"facts": map[string]interface{}{"type": "object"},
				"pinned_ids": map[string]interface{}{"type": "array"},
			})},
	}
}

func (s *Server) toolScan(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	g, err := s.eng.FullScan(scanContext())
	if err != nil {
		return nil, err
	}
	if err := genome.Validate(g); err != nil {
		return nil, err
	}
	s.LoadGenome(g)
	if s.query.Cache != nil {
		if err := s.query.Cache.InvalidateAll(); err != nil {
			s.logf("warn", "failed to invalidate query cache after scan", map[string]interface{}{"error": err.Error()})
		}
	}
	if err := s.contract.MarkLoaded(sess); err != nil {
		return nil, err
	}
	if s.Persist != nil {
		if err := s.Persist(g); err != nil {
			s.logf("warn", "failed to persist genome after scan", map[string]interface{}{"error": err.Error()})
		}
	}
	return map[string]interface{}{
		"status": "ok",
		"nodes":  len(g.Nodes),
		"edges":  len(g.Edges),
		"partial": g.Metadata.Partial,
	}, nil
}

func (s *Server) toolUpdate(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	g := s.currentGenome()
	if g == nil {
		return nil, rgerrors.New(rgerrors.NotFound, "no genome loaded; run scan first")
	}
	next, changes, err := s.eng.Coordinator().Run(scanContext(), g)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastChange = changes
	s.mu.Unlock()
	s.LoadGenome(next)
	if s.query.Cache != nil {
		if err := s.query.Cache.InvalidateAll(); err != nil {
			s.logf("warn", "failed to invalidate query cache after update", map[string]interface{}{"error": err.Error()})
		}
	}
	if err := s.contract.RecordUpdate(sess); err != nil {
		return nil, err
	}
	if s.Persist != nil {
		if err := s.Persist(next); err != nil {
			s.logf("warn", "failed to persist genome after update", map[string]interface{}{"error": err.Error()})
		}
	}
	return map[string]interface{}{
		"status": "ok",
		"added": len(changes.Added),
		"modified": len(changes.Modified),
		"removed": len(changes.Removed),
	}, nil
}

func (s *Server) toolValidate(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	g := s.currentGenome()
	if g == nil {
		return nil, rgerrors.New(rgerrors.NotFound, "no genome loaded; run scan first")
	}
	err := genome.Validate(g)
	if recErr := s.contract.RecordValidation(sess, err == nil); recErr != nil {
		return nil, recErr
	}
	if err != nil {
		return map[string]interface{}{"valid": false, "error": err.Error()}, nil
	}
	return map[string]interface{}{"valid": true}, nil
}

func (s *Server) toolFilter(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	fq := query.FilterQuery{
		Text: stringParam(params, "query", ""),
		Options: query.FilterOptions{
			Limit:   intParam(params, "limit", 50),
			Offset:  intParam(params, "offset", 0),
			IDsOnly: boolParam(params, "ids_only"),
		},
	}
	if raw, ok := params["predicate"].(map[string]interface{}); ok {
		fq.Predicate = decodePredicate(raw)
	}
	return s.query.Filter(fq)
}

func (s *Server) toolGetNode(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	id := genome.NodeId(stringParam(params, "id", ""))
	node, ok := s.query.GetNode(id)
	if !ok {
		return nil, rgerrors.New(rgerrors.NotFound, "unknown node: "+string(id))
	}

	idx := genome.BuildEdgeIndex(s.currentGenome())
	return map[string]interface{}{
		"id": id, "node": node, "outgoing": idx.Outgoing(id), "incoming": idx.Incoming(id),
	}, nil
}

func (s *Server) toolSearch(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	pred := query.ParseQuery(stringParam(params, "query", ""))
	filters := []query.Predicate{pred}
	if nt := stringParam(params, "node_type", ""); nt != "" {
		filters = append(filters, query.Predicate{Field: "type", Op: query.OpEq, Value: nt})
	}
	if lang := stringParam(params, "language", ""); lang != "" {
		filters = append(filters, query.Predicate{Field: "language", Op: query.OpEq, Value: lang})
	}
	if fp := stringParam(params, "file_pattern", ""); fp != "" {
		filters = append(filters, query.Predicate{Field: "file", Op: query.OpRegex, Value: fp})
	}

	combined := query.Predicate{And: filters}
	return s.query.Filter(query.FilterQuery{
		Predicate: combined,
		Options:   query.FilterOptions{Limit: intParam(params, "limit", 50)},
	})
}

func (s *Server) toolDependencies(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	id := genome.NodeId(stringParam(params, "id", ""))
	dir := query.Direction(stringParam(params, "direction", string(query.DirectionOutgoing)))
	return s.query.Dependencies(id, dir, intParam(params, "max_depth", 0))
}

func (s *Server) toolStats(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	return computeStats(s.currentGenome()), nil
}

func (s *Server) toolExport(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	g := s.currentGenome()
	if g == nil {
		return nil, rgerrors.New(rgerrors.NotFound, "no genome loaded; run scan first")
	}
	format := export.Format(stringParam(params, "format", string(export.FormatJSON)))
	basename := stringParam(params, "basename", "genome")

	result, err := export.New(g).Export(format, basename)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string, len(result.Files))
	for name, content := range result.Files {
		files[name] = string(content)
	}
	return map[string]interface{}{"format": result.Format, "files": files}, nil
}

// toolImpact computes the blast radius of editing the given node ids:
// everything that transitively depends on them, per spec §4.10's
// pre-edit impact() step. Arms the pending-update gate via
// Contract.RecordImpact.
func (s *Server) toolImpact(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	ids := nodeIDSliceParam(params, "ids")
	if len(ids) == 0 {
		return nil, rgerrors.New(rgerrors.InvalidInput, "ids must be a non-empty array of node ids")
	}

	g := s.currentGenome()
	affected := make(map[genome.NodeId]bool)
	for _, id := range ids {
		entries, err := s.query.Dependencies(id, query.DirectionIncoming, 0)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			affected[e.Id] = true
		}
	}

	var riskiest []genome.NodeId
	for id := range affected {
		if risk, ok := g.Risk[id]; ok && risk.RiskScore >= 0.6 {
			riskiest = append(riskiest, id)
		}
	}

	result := map[string]interface{}{
		"targets":       ids,
		"affected_count": len(affected),
		"high_risk":     riskiest,
	}
	if err := s.contract.RecordImpact(sess, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) toolCompare(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	a := genome.NodeId(stringParam(params, "a", ""))
	b := genome.NodeId(stringParam(params, "b", ""))
	return s.query.Compare(a, b, stringSliceParam(params, "fields"))
}

func (s *Server) toolFindPath(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	from := genome.NodeId(stringParam(params, "from", ""))
	to := genome.NodeId(stringParam(params, "to", ""))
	return s.query.FindPath(from, to, edgeTypeSliceParam(params, "edge_types"), intParam(params, "max_len", 0))
}

func (s *Server) toolBuildContext(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	req := rgcontext.Request{
		Goal:         stringParam(params, "goal", ""),
		BudgetTokens: intParam(params, "budget_tokens", 4000),
		MustInclude:  nodeIDSliceParam(params, "must_include"),
		Exclude:      nodeIDSliceParam(params, "exclude"),
		SessionID:    sess.SessionID,
	}
	return s.assembler.Build(req)
}

func (s *Server) toolExplainContext(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	return s.assembler.Explain(stringParam(params, "context_id", ""))
}

func (s *Server) toolGetContextSkeleton(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	req := rgcontext.Request{
		Goal:         stringParam(params, "goal", ""),
		BudgetTokens: intParam(params, "budget_tokens", 4000),
		SessionID:    sess.SessionID,
	}
	return s.assembler.Skeleton(req)
}

func (s *Server) toolGetContextFeedback(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	return s.feedback.Get(stringParam(params, "context_id", ""))
}

func (s *Server) toolSetContextSession(sess *storage.Session, params map[string]interface{}) (interface{}, error) {
	facts := map[string]string{}
	if raw, ok := params["facts"].(map[string]interface{}); ok {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				facts[k] = s
			}
		}
	}
	state := rgcontext.State{
		Facts:     facts,
		PinnedIds: stringSliceParam(params, "pinned_ids"),
	}
	if err := s.sessionMemory.Set(sess.SessionID, state); err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "ok"}, nil
}

// decodePredicate rebuilds a query.Predicate from the loosely-typed JSON
// object tools/call params arrive as. Grounded on query.Predicate's own
// json tags, which this mirrors field for field.
func decodePredicate(raw map[string]interface{}) query.Predicate {
	var p query.Predicate
	if field, ok := raw["field"].(string); ok {
		p.Field = field
	}
	if op, ok := raw["op"].(string); ok {
		p.Op = query.Op(op)
	}
	p.Value = raw["value"]
	if values, ok := raw["values"].([]interface{}); ok {
		p.Values = values
	}
	if min, ok := raw["min"].(float64); ok {
		p.Min = min
	}
	if max, ok := raw["max"].(float64); ok {
		p.Max = max
	}
	if and, ok := raw["and"].([]interface{}); ok {
		for _, item := range and {
			if m, ok := item.(map[string]interface{}); ok {
				p.And = append(p.And, decodePredicate(m))
			}
		}
	}
	if or, ok := raw["or"].([]interface{}); ok {
		for _, item := range or {
			if m, ok := item.(map[string]interface{}); ok {
				p.Or = append(p.Or, decodePredicate(m))
			}
		}
	}
	if not, ok := raw["not"].(map[string]interface{}); ok {
		sub := decodePredicate(not)
		p.Not = &sub
	}
	return p
}
