package query

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// FieldDiff is the per-field comparison result for one field name.
type FieldDiff struct {
	Field   string      `json:"field"`
	A       interface{} `json:"a"`
	B       interface{} `json:"b"`
	Equal   bool        `json:"equal"`
	Unified string      `json:"unified,omitempty"` // set only for differing string fields
}

// CompareResult is the output of a compare("a", "b") call.
type CompareResult struct {
	A     genome.NodeId `json:"a"`
	B     genome.NodeId `json:"b"`
	Diffs []FieldDiff   `json:"diffs"`
}

var defaultCompareFields = []string{"type", "file", "language", "visibility", "summary", "criticality"}

// Compare produces a field-by-field diff of two nodes, per spec §4.8's
// compare operation. String-valued fields that differ get a unified-diff
// rendering, grounded on the same difflib.GetUnifiedDiffString shape a
// changed-file patch report uses.
func Compare(g *genome.Genome, a, b genome.NodeId, fields []string) (CompareResult, error) {
	na, ok := g.Nodes[a]
	if !ok {
		return CompareResult{}, rgerrors.New(rgerrors.NotFound, "unknown node: "+string(a))
	}
	nb, ok := g.Nodes[b]
	if !ok {
		return CompareResult{}, rgerrors.New(rgerrors.NotFound, "unknown node: "+string(b))
	}

	if len(fields) == 0 {
		fields = defaultCompareFields
	}

	ca := candidate{id: a, node: na, concepts: conceptsOf(g, a)}
	cb := candidate{id: b, node: nb, concepts: conceptsOf(g, b)}

	result := CompareResult{A: a, B: b}
	for _, f := range fields {
		va, err := fieldValue(ca, f)
		if err != nil {
			return CompareResult{}, err
		}
		vb, err := fieldValue(cb, f)
		if err != nil {
			return CompareResult{}, err
		}

		fd := FieldDiff{Field: f, A: va, B: vb, Equal: fmt.Sprint(va) == fmt.Sprint(vb)}
		if !fd.Equal {
			if sa, ok := va.(string); ok {
				if sb, ok := vb.(string); ok {
					fd.Unified = unifiedString(string(a), string(b), sa, sb)
				}
			}
		}
		result.Diffs = append(result.Diffs, fd)
	}
	return result, nil
}

func conceptsOf(g *genome.Genome, id genome.NodeId) []string {
	var out []string
	for conceptId, concept := range g.Concepts {
		for _, member := range concept.Nodes {
			if member == id {
				out = append(out, strings.TrimPrefix(string(conceptId), genome.ConceptPrefix))
				break
			}
		}
	}
	return out
}

func unifiedString(aName, bName, a, b string) string {
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  2,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\n")
}
