//go:build !cgo

package tsanalyzer

import (
	"context"
	"errors"

	"repogenome/internal/analyzer"
	"repogenome/internal/classify"
)

// ErrNoCGO is returned when tree-sitter analysis is unavailable because the
// binary was built without cgo.
var ErrNoCGO = errors.New("structural analysis requires cgo (tree-sitter)")

// Analyzer is a stub used when the binary is built without cgo.
type Analyzer struct{}

// New returns a stub Analyzer; AnalyzeFile always fails.
func New() *Analyzer { return &Analyzer{} }

// Capability implements analyzer.Analyzer.
func (a *Analyzer) Capability() classify.Capability { return classify.CapabilityTreeSitter }

// Languages implements analyzer.Analyzer.
func (a *Analyzer) Languages() []string { return nil }

// AnalyzeFile implements analyzer.Analyzer.
func (a *Analyzer) AnalyzeFile(ctx context.Context, relPath string, content []byte) (*analyzer.FileAnalysis, error) {
	return nil, ErrNoCGO
}
