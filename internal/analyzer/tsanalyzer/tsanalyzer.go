//go:build cgo

// Package tsanalyzer implements the tree-sitter-backed structural analyzer
// (spec §4.2), grounded on the teacher's internal/symbols/treesitter.go and
// internal/complexity/{treesitter.go,analyzer.go}: the same node-type
// dispatch tables and the same sitter.Parser wrapper, generalized to emit
// Genome nodes/edges instead of a standalone Symbol slice.
package tsanalyzer

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"repogenome/internal/analyzer"
	"repogenome/internal/classify"
	"repogenome/internal/genome"
)

// Analyzer extracts functions, classes, and call/import edges from source
// text via tree-sitter grammars.
type Analyzer struct {
	parser *sitter.Parser
}

// New returns a tree-sitter-backed Analyzer.
func New() *Analyzer {
	return &Analyzer{parser: sitter.NewParser()}
}

// Capability implements analyzer.Analyzer.
func (a *Analyzer) Capability() classify.Capability { return classify.CapabilityTreeSitter }

// Languages implements analyzer.Analyzer.
func (a *Analyzer) Languages() []string {
	return []string{"go", "python", "javascript", "typescript"}
}

func (a *Analyzer) langFor(language string) (*sitter.Language, error) {
	switch language {
	case "go":
		return golang.GetLanguage(), nil
	case "python":
		return python.GetLanguage(), nil
	case "javascript":
		return javascript.GetLanguage(), nil
	case "typescript":
		return typescript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
}

// AnalyzeFile implements analyzer.Analyzer.
func (a *Analyzer) AnalyzeFile(ctx context.Context, relPath string, content []byte) (*analyzer.FileAnalysis, error) {
	language := classify.Classify(relPath, content).Language
	tsLang, err := a.langFor(language)
	if err != nil {
		return analyzer.NewFileAnalysis(relPath), nil
	}

	a.parser.SetLanguage(tsLang)
	tree, err := a.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relPath, err)
	}
	root := tree.RootNode()

	fa := analyzer.NewFileAnalysis(relPath)
	fileId := genome.FileNodeId(relPath)

	functionTypes := functionNodeTypes(language)
	classTypes := classNodeTypes(language)
	callTypes := callNodeTypes(language)
	importTypes := importNodeTypes(language)

	for _, fn := range findNodes(root, functionTypes) {
		name := childName(fn, content, language)
		if name == "" {
			continue
		}
		id := genome.SymbolNodeId(relPath, name)
		fa.Nodes[id] = genome.Node{
			Type:        genome.NodeFunction,
			File:        relPath,
			Language:    language,
			Visibility:  visibilityOf(name),
			Summary:     firstLine(fn, content),
			Criticality: 0,
		}
		fa.Edges = append(fa.Edges, genome.Edge{From: fileId, To: id, Type: genome.EdgeDefines})
		for _, call := range findNodes(fn, callTypes) {
			callee := calleeName(call, content, language)
			if callee == "" {
				continue
			}
			fa.Edges = append(fa.Edges, genome.Edge{
				From: id,
				To:   genome.SymbolNodeId(relPath, callee),
				Type: genome.EdgeCalls,
			})
		}
	}

	for _, cls := range findNodes(root, classTypes) {
		name := childName(cls, content, language)
		if name == "" {
			continue
		}
		id := genome.SymbolNodeId(relPath, name)
		fa.Nodes[id] = genome.Node{
			Type:        genome.NodeClass,
			File:        relPath,
			Language:    language,
			Visibility:  visibilityOf(name),
			Summary:     firstLine(cls, content),
			Criticality: 0,
		}
		fa.Edges = append(fa.Edges, genome.Edge{From: fileId, To: id, Type: genome.EdgeDefines})
	}

	for _, imp := range findNodes(root, importTypes) {
		target := importTarget(imp, content, language)
		if target != "" {
			fa.Imports = append(fa.Imports, target)
		}
	}

	for _, call := range findMainGuardCalls(root, content, language) {
		callee := calleeName(call, content, language)
		if callee == "" {
			continue
		}
		fa.Edges = append(fa.Edges, genome.Edge{
			From: fileId,
			To:   genome.SymbolNodeId(relPath, callee),
			Type: genome.EdgeCalls,
		})
	}

	return fa, nil
}

// findMainGuardCalls returns calls made inside Python's
// `if __name__ == "__main__":` module-level entry guard. These calls
// happen outside any function body, so the caller is the file itself
// rather than a symbol node.
func findMainGuardCalls(root *sitter.Node, content []byte, lang string) []*sitter.Node {
	if lang != "python" {
		return nil
	}
	var out []*sitter.Node
	for _, ifStmt := range findNodes(root, []string{"if_statement"}) {
		cond := ifStmt.ChildByFieldName("condition")
		if cond == nil {
			continue
		}
		text := string(content[cond.StartByte():cond.EndByte()])
		if !strings.Contains(text, "__name__") || !strings.Contains(text, "__main__") {
			continue
		}
		out = append(out, findNodes(ifStmt, callNodeTypes(lang))...)
	}
	return out
}

func functionNodeTypes(lang string) []string {
	switch lang {
	case "go":
		return []string{"function_declaration", "method_declaration"}
	case "python":
		return []string{"function_definition"}
	case "javascript", "typescript":
		return []string{"function_declaration", "method_definition", "arrow_function"}
	}
	return nil
}

func classNodeTypes(lang string) []string {
	switch lang {
	case "go":
		return []string{"type_declaration"}
	case "python":
		return []string{"class_definition"}
	case "javascript", "typescript":
		return []string{"class_declaration", "interface_declaration"}
	}
	return nil
}

func callNodeTypes(lang string) []string {
	switch lang {
	case "go":
		return []string{"call_expression"}
	case "python":
		return []string{"call"}
	case "javascript", "typescript":
		return []string{"call_expression"}
	}
	return nil
}

func importNodeTypes(lang string) []string {
	switch lang {
	case "go":
		return []string{"import_spec"}
	case "python":
		return []string{"import_statement", "import_from_statement"}
	case "javascript", "typescript":
		return []string{"import_statement"}
	}
	return nil
}

func childName(node *sitter.Node, source []byte, lang string) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return string(source[n.StartByte():n.EndByte()])
	}
	if lang == "go" && node.Type() == "type_declaration" {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child != nil && child.Type() == "type_spec" {
				if n := child.ChildByFieldName("name"); n != nil {
					return string(source[n.StartByte():n.EndByte()])
				}
			}
		}
	}
	return ""
}

func calleeName(call *sitter.Node, source []byte, lang string) string {
	fn := call.ChildByFieldName("function")
	if fn == nil && call.ChildCount() > 0 {
		fn = call.Child(0)
	}
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier", "selector_expression", "attribute", "member_expression":
		if n := fn.ChildByFieldName("field"); n != nil {
			return string(source[n.StartByte():n.EndByte()])
		}
		if n := fn.ChildByFieldName("attribute"); n != nil {
			return string(source[n.StartByte():n.EndByte()])
		}
		if n := fn.ChildByFieldName("property"); n != nil {
			return string(source[n.StartByte():n.EndByte()])
		}
		return string(source[fn.StartByte():fn.EndByte()])
	}
	return string(source[fn.StartByte():fn.EndByte()])
}

func importTarget(node *sitter.Node, source []byte, lang string) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "interpreted_string_literal", "string", "string_literal", "dotted_name":
			text := string(source[child.StartByte():child.EndByte()])
			return trimQuotes(text)
		}
	}
	return ""
}

func trimQuotes(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'' || s[0] == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

func visibilityOf(name string) genome.Visibility {
	if len(name) == 0 {
		return genome.VisibilityPrivate
	}
	r := name[0]
	if r >= 'A' && r <= 'Z' {
		return genome.VisibilityPublic
	}
	if len(name) > 1 && name[0] == '_' {
		return genome.VisibilityPrivate
	}
	return genome.VisibilityInternal
}

func firstLine(node *sitter.Node, source []byte) string {
	text := source[node.StartByte():node.EndByte()]
	for i, b := range text {
		if b == '\n' {
			return string(text[:i])
		}
		if i > 160 {
			break
		}
	}
	if len(text) > 160 {
		return string(text[:160])
	}
	return string(text)
}

func findNodes(root *sitter.Node, types []string) []*sitter.Node {
	if root == nil || len(types) == 0 {
		return nil
	}
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	var out []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if set[n.Type()] {
			out = append(out, n)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}
