// Package engine wires the Structural Extractor, Auxiliary Subsystems,
// Merger, and Incremental Coordinator into the two operations every
// caller of this repository intelligence engine needs: a full scan and
// an incremental update. Grounded on the teacher's cmd/ckb, which wires
// the equivalent pipeline directly in its command handlers (scan.go,
// refresh.go); this package pulls that wiring into one reusable type so
// both cmd/repogenome and internal/mcp's scan/update tools share it
// instead of duplicating the pipeline construction.
package engine

import (
	"context"
	"time"

	"repogenome/internal/analyzer"
	"repogenome/internal/analyzer/configsrc"
	"repogenome/internal/analyzer/scipsrc"
	"repogenome/internal/analyzer/tsanalyzer"
	"repogenome/internal/capability"
	"repogenome/internal/capability/fsops"
	"repogenome/internal/capability/historysrc"
	"repogenome/internal/extractor"
	"repogenome/internal/genome"
	"repogenome/internal/incremental"
	"repogenome/internal/merger"
	"repogenome/internal/subsystem/chrono"
	"repogenome/internal/subsystem/contract"
	"repogenome/internal/subsystem/flow"
	"repogenome/internal/subsystem/intent"
	"repogenome/internal/subsystem/secretslens"
	"repogenome/internal/subsystem/testgalaxy"
)

// Options configures one Engine instance.
type Options struct {
	Root            string
	Workers         int
	Ignore          []string
	ChurnSince      string
	DisableSecurity bool
	DisableChrono   bool
	DisableContract bool
	DisableFlow     bool
	DisableIntent   bool
	DisableTests    bool
	// SCIPIndexPath, when non-empty, points at a pre-built SCIP index
	// (scip-go, scip-python, scip-typescript, ...) whose symbols and
	// occurrences are folded into the base graph alongside the
	// tree-sitter/config analyzers (spec §4.2's "alternative extraction
	// source").
	SCIPIndexPath string
}

// DefaultOptions returns sane defaults for an Options with Root already set.
func DefaultOptions(root string) Options {
	return Options{
		Root:       root,
		Workers:    4,
		Ignore:     []string{".git", "node_modules", "vendor", "__pycache__", ".repogenome"},
		ChurnSince: "90.days.ago",
	}
}

// Engine bundles the concrete capability implementations and analyzer
// registry a scan or incremental update needs.
type Engine struct {
	opts     Options
	fs       capability.FilesystemSource
	history  *historysrc.Git
	registry *analyzer.Registry
	merger   *merger.Merger
	logger   capability.Logger
}

// New returns an Engine rooted at opts.Root, wiring the tree-sitter and
// config analyzers into a fresh Registry (spec §4.2's default backend
// set). The SCIP analyzer isn't a Registry member — it doesn't classify
// files by walking the tree, it ingests a pre-built index whole — so it
// runs as an extra fragment source in FullScan when opts.SCIPIndexPath
// is set.
func New(opts Options, logger capability.Logger) *Engine {
	registry := analyzer.NewRegistry()
	registry.Register(tsanalyzer.New())
	registry.Register(configsrc.New())

	return &Engine{
		opts:     opts,
		fs:       fsops.New(opts.Root),
		history:  historysrc.New(opts.Root, logger),
		registry: registry,
		merger:   merger.New(merger.DefaultOptions()),
		logger:   logger,
	}
}

// FullScan runs the entire pipeline from a clean slate: extraction,
// import resolution, base-graph construction, every enabled auxiliary
// subsystem, and the final merge/validate (spec §4.3-§4.6).
func (e *Engine) FullScan(ctx context.Context) (*genome.Genome, error) {
	spider := extractor.New(e.fs, e.registry, e.logger)
	result, err := spider.Scan(ctx, e.opts.Root, extractor.Options{Workers: e.opts.Workers, IgnorePatterns: e.opts.Ignore})
	if err != nil {
		return nil, err
	}

	files := result.Files
	if e.opts.SCIPIndexPath != "" {
		scipFiles, err := e.scipFragments()
		if err != nil {
			return nil, err
		}
		files = append(files, scipFiles...)
	}
	extractor.ResolveImports(files)

	base := merger.BuildBaseGraph(files, nil)
	base.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	base.Metadata.SchemaVersion = genome.CurrentSchemaVersion
	base.Metadata.Partial = len(result.Errors) > 0

	_, fingerprints, err := incremental.DetectChanges(ctx, e.fs, e.opts.Root, e.opts.Ignore, nil)
	if err != nil {
		return nil, err
	}
	base.Metadata.Fingerprints = fingerprints
	base.Metadata.RepoHash = genome.ComputeRepoHash(fingerprints)

	out := merger.SubsystemOutputs{}

	if !e.opts.DisableFlow {
		out.Flows = flow.Weave(base)
	}
	if !e.opts.DisableIntent {
		out.Concepts = intent.Atlas(base)
	}
	if !e.opts.DisableChrono {
		out.History = chrono.Map(ctx, base, e.history, historysrc.HotspotScore, e.opts.ChurnSince)
	}
	if !e.opts.DisableContract {
		out.Contracts = contract.Weave(base, nil)
	}
	if !e.opts.DisableTests {
		out.TestEdges = testgalaxy.Map(base)
	}
	if !e.opts.DisableSecurity {
		out.Security = e.scanSecurity(ctx, base)
	}

	return e.merger.Merge(base, out)
}

// scipFragments loads and flattens the SCIP index at opts.SCIPIndexPath
// into per-document FileAnalysis fragments, the same shape the Registry's
// analyzers produce, so BuildBaseGraph folds them in by node id without
// caring which source produced a symbol.
func (e *Engine) scipFragments() ([]*analyzer.FileAnalysis, error) {
	idx, err := scipsrc.LoadIndex(e.opts.SCIPIndexPath)
	if err != nil {
		return nil, err
	}
	return scipsrc.Convert(idx), nil
}

// scanSecurity runs the SecretsLens subsystem (SUPPLEMENTED FEATURES #1)
// over every file node's content.
func (e *Engine) scanSecurity(ctx context.Context, g *genome.Genome) map[genome.NodeId]genome.Security {
	out := make(map[genome.NodeId]genome.Security)
	for id, n := range g.Nodes {
		if n.Type != genome.NodeFile {
			continue
		}
		content, err := e.fs.ReadFile(ctx, n.File)
		if err != nil {
			continue
		}
		if sec, found := secretslens.Scan(content); found {
			out[id] = sec
		}
	}
	return out
}

// Coordinator returns an Incremental Coordinator wired to this Engine's
// same capabilities and subsystems (spec §4.7), for bounded re-analysis
// against a prior Genome.
func (e *Engine) Coordinator() *incremental.Coordinator {
	return &incremental.Coordinator{
		FS:       e.fs,
		Registry: e.registry,
		Logger:   e.logger,
		Merger:   e.merger,
		Root:     e.opts.Root,
		Ignore:   e.opts.Ignore,
		Workers:  e.opts.Workers,

		FlowWeaver: func(ctx context.Context, g *genome.Genome) []genome.Flow {
			if e.opts.DisableFlow {
				return nil
			}
			return flow.Weave(g)
		},
		IntentAtlas: func(ctx context.Context, g *genome.Genome) map[genome.NodeId]genome.Concept {
			if e.opts.DisableIntent {
				return nil
			}
			return intent.Atlas(g)
		},
		ChronoMap: func(ctx context.Context, g *genome.Genome) map[genome.NodeId]genome.History {
			if e.opts.DisableChrono {
				return nil
			}
			return chrono.Map(ctx, g, e.history, historysrc.HotspotScore, e.opts.ChurnSince)
		},
		ContractLens: func(ctx context.Context, g *genome.Genome) map[string]genome.Contract {
			if e.opts.DisableContract {
				return nil
			}
			return contract.Weave(g, nil)
		},
		TestGalaxy: func(ctx context.Context, g *genome.Genome) []genome.Edge {
			if e.opts.DisableTests {
				return nil
			}
			return testgalaxy.Map(g)
		},
		SecretsLens: func(ctx context.Context, changed []string) map[genome.NodeId]genome.Security {
			if e.opts.DisableSecurity {
				return nil
			}
			out := make(map[genome.NodeId]genome.Security)
			for _, path := range changed {
				content, err := e.fs.ReadFile(ctx, path)
				if err != nil {
					continue
				}
				if sec, found := secretslens.Scan(content); found {
					out[genome.FileNodeId(path)] = sec
				}
			}
			return out
		},
	}
}
