// Package configsrc implements the config-file analyzer (spec §4.2):
// YAML/TOML/JSON files become `config`-kind file nodes whose top-level
// keys are surfaced in the node summary, grounded on the teacher's config
// loading conventions (internal/config) generalized from "load my own
// config" to "describe any config file found in the repository".
package configsrc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"repogenome/internal/analyzer"
	"repogenome/internal/classify"
	"repogenome/internal/genome"
)

// Analyzer describes config/data files by their top-level key set.
type Analyzer struct{}

// New returns a config-file Analyzer.
func New() *Analyzer { return &Analyzer{} }

// Capability implements analyzer.Analyzer.
func (a *Analyzer) Capability() classify.Capability { return classify.CapabilityConfig }

// Languages implements analyzer.Analyzer.
func (a *Analyzer) Languages() []string { return nil }

// AnalyzeFile implements analyzer.Analyzer.
func (a *Analyzer) AnalyzeFile(ctx context.Context, relPath string, content []byte) (*analyzer.FileAnalysis, error) {
	fa := analyzer.NewFileAnalysis(relPath)
	keys, err := topLevelKeys(relPath, content)
	if err != nil {
		// A malformed config file is still worth a node; note the parse
		// failure in its summary rather than failing the whole scan.
		fa.Nodes[genome.FileNodeId(relPath)] = genome.Node{
			Type:    genome.NodeConfig,
			File:    relPath,
			Summary: fmt.Sprintf("unparsable config file: %v", err),
		}
		return fa, nil
	}

	sort.Strings(keys)
	summary := "config keys: " + strings.Join(keys, ", ")
	if len(keys) == 0 {
		summary = "config file"
	}
	fa.Nodes[genome.FileNodeId(relPath)] = genome.Node{
		Type:    genome.NodeConfig,
		File:    relPath,
		Summary: summary,
	}
	return fa, nil
}

func topLevelKeys(relPath string, content []byte) ([]string, error) {
	ext := strings.ToLower(relPath)
	switch {
	case strings.HasSuffix(ext, ".yaml"), strings.HasSuffix(ext, ".yml"):
		var m map[string]interface{}
		if err := yaml.Unmarshal(content, &m); err != nil {
			return nil, err
		}
		return keysOf(m), nil
	case strings.HasSuffix(ext, ".toml"):
		var m map[string]interface{}
		if err := toml.Unmarshal(content, &m); err != nil {
			return nil, err
		}
		return keysOf(m), nil
	case strings.HasSuffix(ext, ".json"):
		var m map[string]interface{}
		if err := json.Unmarshal(content, &m); err != nil {
			return nil, err
		}
		return keysOf(m), nil
	default:
		return nil, nil
	}
}

func keysOf(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
