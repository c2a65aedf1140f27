// Package classify implements the File Classifier (spec §4.1): a pure,
// total function from a path (and optionally its content) to a
// (language, kind, analyzer capability) triple.
package classify

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind is the closed set of file kinds the classifier can produce.
type Kind string

const (
	KindCode   Kind = "code"
	KindDoc    Kind = "doc"
	KindConfig Kind = "config"
	KindWeb    Kind = "web"
	KindData   Kind = "data"
	KindOther  Kind = "other"
)

// Capability names the analyzer capability that should handle a
// classified file. The empty string means no analyzer applies.
type Capability string

const (
	CapabilityTreeSitter Capability = "treesitter"
	CapabilityConfig     Capability = "config"
	CapabilityNone       Capability = ""
)

// Result is the outcome of classifying one path.
type Result struct {
	Language   string // language tag from the closed set, "" if not code
	Kind       Kind
	Capability Capability
}

var extensionTable = map[string]Result{
	".go":    {Language: "go", Kind: KindCode, Capability: CapabilityTreeSitter},
	".py":    {Language: "python", Kind: KindCode, Capability: CapabilityTreeSitter},
	".pyw":   {Language: "python", Kind: KindCode, Capability: CapabilityTreeSitter},
	".js":    {Language: "javascript", Kind: KindCode, Capability: CapabilityTreeSitter},
	".mjs":   {Language: "javascript", Kind: KindCode, Capability: CapabilityTreeSitter},
	".cjs":   {Language: "javascript", Kind: KindCode, Capability: CapabilityTreeSitter},
	".jsx":   {Language: "javascript", Kind: KindCode, Capability: CapabilityTreeSitter},
	".ts":    {Language: "typescript", Kind: KindCode, Capability: CapabilityTreeSitter},
	".tsx":   {Language: "typescript", Kind: KindCode, Capability: CapabilityTreeSitter},
	".rs":    {Language: "rust", Kind: KindCode, Capability: CapabilityTreeSitter},
	".java":  {Language: "java", Kind: KindCode, Capability: CapabilityTreeSitter},
	".rb":    {Language: "ruby", Kind: KindCode, Capability: CapabilityTreeSitter},
	".c":     {Language: "c", Kind: KindCode, Capability: CapabilityTreeSitter},
	".h":     {Language: "c", Kind: KindCode, Capability: CapabilityTreeSitter},
	".cc":    {Language: "cpp", Kind: KindCode, Capability: CapabilityTreeSitter},
	".cpp":   {Language: "cpp", Kind: KindCode, Capability: CapabilityTreeSitter},
	".hpp":   {Language: "cpp", Kind: KindCode, Capability: CapabilityTreeSitter},

	".md":       {Language: "", Kind: KindDoc, Capability: CapabilityNone},
	".markdown": {Language: "", Kind: KindDoc, Capability: CapabilityNone},
	".rst":      {Language: "", Kind: KindDoc, Capability: CapabilityNone},
	".txt":      {Language: "", Kind: KindDoc, Capability: CapabilityNone},

	".yaml": {Language: "", Kind: KindConfig, Capability: CapabilityConfig},
	".yml":  {Language: "", Kind: KindConfig, Capability: CapabilityConfig},
	".toml": {Language: "", Kind: KindConfig, Capability: CapabilityConfig},
	".ini":  {Language: "", Kind: KindConfig, Capability: CapabilityConfig},
	".env":  {Language: "", Kind: KindConfig, Capability: CapabilityConfig},

	".html": {Language: "", Kind: KindWeb, Capability: CapabilityNone},
	".htm":  {Language: "", Kind: KindWeb, Capability: CapabilityNone},
	".css":  {Language: "", Kind: KindWeb, Capability: CapabilityNone},

	".json": {Language: "", Kind: KindData, Capability: CapabilityConfig},
	".csv":  {Language: "", Kind: KindData, Capability: CapabilityNone},
	".xml":  {Language: "", Kind: KindData, Capability: CapabilityNone},
}

// specialNames maps well-known basenames (with no useful extension) that
// still carry a recognizable kind.
var specialNames = map[string]Result{
	"dockerfile": {Language: "", Kind: KindConfig, Capability: CapabilityNone},
	"makefile":   {Language: "", Kind: KindConfig, Capability: CapabilityNone},
}

// Classify resolves a path to its (language, kind, capability) triple.
// Resolution order per spec §4.1: extension, then shebang/first-line
// heuristic, then a content sniff; unknown files are `kind=other` with no
// analyzer. Classify is pure and total — it never returns an error.
func Classify(path string, content []byte) Result {
	base := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))

	if r, ok := extensionTable[ext]; ok {
		return r
	}
	if r, ok := specialNames[base]; ok {
		return r
	}
	if r, ok := classifyByShebang(content); ok {
		return r
	}
	if r, ok := classifyBySniff(content); ok {
		return r
	}
	return Result{Kind: KindOther, Capability: CapabilityNone}
}

func classifyByShebang(content []byte) (Result, bool) {
	if len(content) == 0 || content[0] != '#' {
		return Result{}, false
	}
	nl := bytes.IndexByte(content, '\n')
	line := content
	if nl >= 0 {
		line = content[:nl]
	}
	if !bytes.HasPrefix(line, []byte("#!")) {
		return Result{}, false
	}
	switch {
	case bytes.Contains(line, []byte("python")):
		return Result{Language: "python", Kind: KindCode, Capability: CapabilityTreeSitter}, true
	case bytes.Contains(line, []byte("node")):
		return Result{Language: "javascript", Kind: KindCode, Capability: CapabilityTreeSitter}, true
	case bytes.Contains(line, []byte("sh")):
		return Result{Language: "shell", Kind: KindCode, Capability: CapabilityNone}, true
	}
	return Result{}, false
}

func classifyBySniff(content []byte) (Result, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Result{}, false
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return Result{Kind: KindData, Capability: CapabilityConfig}, true
	}
	return Result{}, false
}

// IsIgnored reports whether relPath (repo-relative, POSIX separators)
// matches any of the configured exclusion patterns. Grounded on the
// extractor's exclusion-policy walk (spec §4.3).
func IsIgnored(relPath string, patterns []string) bool {
	segments := strings.Split(relPath, "/")
	for _, pattern := range patterns {
		for _, seg := range segments {
			if seg == pattern {
				return true
			}
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
