package mcp

import (
	"net/url"
	"strings"

	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
	"repogenome/internal/storage"
)

const uriScheme = "repogenome://"

// Resource is a static resource.
type Resource struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// ResourceTemplate is a dynamic, URI-templated resource.
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
}

// GetResourceDefinitions returns the resources named in spec §6.
func (s *Server) GetResourceDefinitions() ([]Resource, []ResourceTemplate) {
	resources := []Resource{
		{URI: uriScheme + "current", Name: "Current Genome"},
		{URI: uriScheme + "current/brief", Name: "Current Genome (brief)"},
		{URI: uriScheme + "current/detailed", Name: "Current Genome (detailed)"},
		{URI: uriScheme + "summary", Name: "Genome Summary"},
		{URI: uriScheme + "diff", Name: "Last Change Set"},
		{URI: uriScheme + "stats", Name: "Genome Statistics"},
	}
	templates := []ResourceTemplate{
		{URITemplate: uriScheme + "nodes/{id}", Name: "Node"},
	}
	return resources, templates
}

// handleResourceRead dispatches a resources/read call by URI. Reading
// "current" or "summary" marks the session's Agent Contract loaded
// (spec §4.10: a session must read one of these before any other tool).
func (s *Server) handleResourceRead(sess *storage.Session, uri string) (interface{}, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, rgerrors.New(rgerrors.InvalidInput, "expected repogenome:// scheme")
	}

	path := strings.TrimPrefix(uri, uriScheme)
	path, rawQuery, _ := strings.Cut(path, "?")
	query, _ := url.ParseQuery(rawQuery)
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		return nil, rgerrors.New(rgerrors.InvalidInput, "empty resource path")
	}

	g := s.currentGenome()
	if g == nil && parts[0] != "diff" {
		return nil, rgerrors.New(rgerrors.NotFound, "no genome loaded; run scan first")
	}

	switch parts[0] {
	case "current":
		defer s.contract.MarkLoaded(sess)
		if len(parts) > 1 && parts[1] == "brief" {
			return briefView(g), nil
		}
		if len(parts) > 1 && parts[1] == "detailed" {
			return g, nil
		}
		return standardView(g), nil
	case "summary":
		defer s.contract.MarkLoaded(sess)
		if query.Get("mode") == "full" {
			return g, nil
		}
		return g.Summary, nil
	case "diff":
		return s.lastChange, nil
	case "stats":
		return computeStats(g), nil
	case "nodes":
		if len(parts) < 2 {
			return nil, rgerrors.New(rgerrors.InvalidInput, "nodes/{id} requires an id")
		}
		return s.toolGetNode(sess, map[string]interface{}{"id": parts[1]})
	default:
		return nil, rgerrors.New(rgerrors.NotFound, "unknown resource: "+parts[0])
	}
}

// briefView strips node/edge/section payloads down to what a client
// needs to decide whether to load "current/detailed" (spec §6).
func briefView(g *genome.Genome) map[string]interface{} {
	return map[string]interface{}{
		"metadata": g.Metadata,
		"summary":  g.Summary,
		"counts": map[string]int{
			"nodes": len(g.Nodes),
			"edges": len(g.Edges),
		},
	}
}

// standardView is the default "current" payload: everything but the
// derived Risk/Security sections, which "current/detailed" adds.
func standardView(g *genome.Genome) map[string]interface{} {
	return map[string]interface{}{
		"metadata":  g.Metadata,
		"summary":   g.Summary,
		"nodes":     g.Nodes,
		"edges":     g.Edges,
		"flows":     g.Flows,
		"concepts":  g.Concepts,
		"history":   g.History,
		"contracts": g.Contracts,
	}
}
