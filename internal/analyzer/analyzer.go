// Package analyzer defines the Analyzer Registry (spec §4.2): a
// dispatch table from (capability, language) to the concrete extraction
// backend that turns one file's bytes into a fragment of genome nodes and
// edges, later merged by the Merger.
package analyzer

import (
	"context"
	"fmt"

	"repogenome/internal/classify"
	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// FileAnalysis is the fragment one Analyzer contributes for one file. The
// extractor collects these per-file and the Merger folds them together.
type FileAnalysis struct {
	File    string
	Nodes   map[genome.NodeId]genome.Node
	Edges   []genome.Edge
	Imports []string // raw, unresolved import targets discovered in this file
}

// NewFileAnalysis returns an empty FileAnalysis for relPath.
func NewFileAnalysis(relPath string) *FileAnalysis {
	return &FileAnalysis{File: relPath, Nodes: make(map[genome.NodeId]genome.Node)}
}

// Analyzer extracts a FileAnalysis from one file's content. Implementations
// must be safe for concurrent use across the extractor's worker pool.
type Analyzer interface {
	// Capability names the classify.Capability this analyzer serves.
	Capability() classify.Capability
	// Languages lists the classify language tags this analyzer accepts;
	// an empty slice means it accepts every language under its capability
	// (e.g. the config analyzer).
	Languages() []string
	// AnalyzeFile extracts symbols/edges from one file.
	AnalyzeFile(ctx context.Context, relPath string, content []byte) (*FileAnalysis, error)
}

// Registry dispatches a classify.Result to the Analyzer registered for it.
type Registry struct {
	byCapability map[classify.Capability][]Analyzer
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byCapability: make(map[classify.Capability][]Analyzer)}
}

// Register adds a in the registry under its declared capability.
func (r *Registry) Register(a Analyzer) {
	r.byCapability[a.Capability()] = append(r.byCapability[a.Capability()], a)
}

// Resolve returns the Analyzer that should handle a file classified as
// result, or nil if no analyzer applies (e.g. kind=other).
func (r *Registry) Resolve(result classify.Result) Analyzer {
	candidates := r.byCapability[result.Capability]
	if len(candidates) == 0 {
		return nil
	}
	for _, a := range candidates {
		langs := a.Languages()
		if len(langs) == 0 {
			return a
		}
		for _, l := range langs {
			if l == result.Language {
				return a
			}
		}
	}
	return nil
}

// AnalyzeFile classifies path (already done by the caller) and dispatches
// to the matching analyzer, returning a well-formed rgerrors.AnalysisError
// if extraction fails, never a raw error.
func AnalyzeFile(ctx context.Context, r *Registry, result classify.Result, relPath string, content []byte) (*FileAnalysis, error) {
	a := r.Resolve(result)
	if a == nil {
		return nil, nil
	}
	fa, err := a.AnalyzeFile(ctx, relPath, content)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.AnalysisError, fmt.Sprintf("analyzing %s", relPath), err)
	}
	return fa, nil
}
