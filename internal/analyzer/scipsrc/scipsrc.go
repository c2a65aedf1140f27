// Package scipsrc ingests a pre-built SCIP index as a supplementary
// extraction source (spec §4.2), grounded on the teacher's
// internal/backends/scip/{loader.go,types.go,symbols.go}: the same
// protobuf-decode-then-flatten-to-documents shape, retargeted to produce
// Genome node/edge fragments per document instead of a standalone SCIP
// query backend.
package scipsrc

import (
	"os"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"repogenome/internal/analyzer"
	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// LoadIndex reads and decodes a SCIP index file.
func LoadIndex(path string) (*scippb.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "reading SCIP index "+path, err)
	}
	var idx scippb.Index
	if err := proto.Unmarshal(data, &idx); err != nil {
		return nil, rgerrors.Wrap(rgerrors.InvalidInput, "parsing SCIP index "+path, err)
	}
	return &idx, nil
}

// Convert flattens a decoded SCIP index into one FileAnalysis per
// document: symbol definitions become nodes, `moniker` (external package)
// occurrences become raw imports for later resolution, and definition/
// reference occurrence pairs within the same document become `calls`
// edges when the occurrence is a call site.
func Convert(idx *scippb.Index) []*analyzer.FileAnalysis {
	results := make([]*analyzer.FileAnalysis, 0, len(idx.Documents))
	for _, doc := range idx.Documents {
		fa := analyzer.NewFileAnalysis(doc.RelativePath)
		fileId := genome.FileNodeId(doc.RelativePath)

		defined := make(map[string]genome.NodeId)
		for _, sym := range doc.Symbols {
			name := displayName(sym)
			if name == "" {
				continue
			}
			id := genome.SymbolNodeId(doc.RelativePath, name)
			defined[sym.Symbol] = id
			fa.Nodes[id] = genome.Node{
				Type:       symbolKindToNodeType(sym.Kind),
				File:       doc.RelativePath,
				Language:   doc.Language,
				Visibility: symbolVisibility(sym.Symbol),
			}
			fa.Edges = append(fa.Edges, genome.Edge{From: fileId, To: id, Type: genome.EdgeDefines})
		}

		for _, occ := range doc.Occurrences {
			if occ.SymbolRoles&int32(scippb.SymbolRole_Definition) != 0 {
				continue
			}
			if occ.Symbol == "" {
				continue
			}
			if isExternalSymbol(occ.Symbol) {
				fa.Imports = append(fa.Imports, occ.Symbol)
				continue
			}
			// A reference from inside a known local symbol's body is
			// treated as a call edge; enclosing-symbol resolution is
			// best-effort since SCIP occurrences don't carry a direct
			// caller pointer.
			if target, ok := defined[occ.Symbol]; ok {
				fa.Edges = append(fa.Edges, genome.Edge{From: fileId, To: target, Type: genome.EdgeReferences})
			}
		}
		results = append(results, fa)
	}
	return results
}

func displayName(sym *scippb.SymbolInformation) string {
	if sym.DisplayName != "" {
		return sym.DisplayName
	}
	return lastSegment(sym.Symbol)
}

func lastSegment(symbolId string) string {
	parts := strings.FieldsFunc(symbolId, func(r rune) bool { return r == '/' || r == '#' || r == '.' })
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func isExternalSymbol(symbolId string) bool {
	return strings.HasPrefix(symbolId, "scip-") == false && strings.Contains(symbolId, " ") && !strings.HasPrefix(symbolId, "local ")
}

func symbolVisibility(symbolId string) genome.Visibility {
	if strings.Contains(symbolId, "local ") {
		return genome.VisibilityPrivate
	}
	return genome.VisibilityPublic
}

func symbolKindToNodeType(kind scippb.SymbolInformation_Kind) genome.NodeType {
	switch kind {
	case scippb.SymbolInformation_Class, scippb.SymbolInformation_Struct, scippb.SymbolInformation_Interface, scippb.SymbolInformation_Enum:
		return genome.NodeClass
	case scippb.SymbolInformation_Function, scippb.SymbolInformation_Method, scippb.SymbolInformation_Constructor:
		return genome.NodeFunction
	default:
		return genome.NodeFunction
	}
}

// ExternalNodeIds resolves the raw import monikers gathered on a
// FileAnalysis into virtual ext: NodeIds for edge closure (spec §3).
func ExternalNodeIds(imports []string) []genome.NodeId {
	out := make([]genome.NodeId, 0, len(imports))
	for _, imp := range imports {
		out = append(out, genome.ExternalNodeId(imp))
	}
	return out
}
