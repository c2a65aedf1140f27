package main

import (
	"os"
	"path/filepath"

	"repogenome/internal/config"
	"repogenome/internal/engine"
	"repogenome/internal/genome"
	"repogenome/internal/logging"
	"repogenome/internal/storage"
)

func mustLogger(cfg *config.Config, toStderr bool) *logging.Logger {
	format := logging.Format(cfg.Logging.Format)
	level := logging.Level(cfg.Logging.Level)
	var out *os.File = os.Stdout
	if toStderr {
		out = os.Stderr
	}
	return logging.NewLogger(logging.Config{Format: format, Level: level, Output: out})
}

func loadConfig(repoRoot string) (*config.Config, error) {
	return config.Load(repoRoot)
}

func buildEngine(cfg *config.Config, logger *logging.Logger) *engine.Engine {
	opts := engine.DefaultOptions(cfg.RepoRoot)
	opts.Workers = cfg.Extractor.Workers
	opts.Ignore = cfg.Analyzers.Ignore
	opts.DisableFlow = !cfg.Subsystems.FlowWeaver
	opts.DisableIntent = !cfg.Subsystems.IntentAtlas
	opts.DisableChrono = !cfg.Subsystems.ChronoMap
	opts.DisableContract = !cfg.Subsystems.ContractLens
	opts.DisableTests = !cfg.Subsystems.TestGalaxy
	opts.DisableSecurity = !cfg.Subsystems.SecretsLens
	if cfg.Analyzers.SCIP {
		opts.SCIPIndexPath = cfg.Analyzers.SCIPIndex
	}
	return engine.New(opts, logger)
}

func openDB(cfg *config.Config, logger *logging.Logger) (*storage.DB, error) {
	dbPath := cfg.Cache.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(cfg.RepoRoot, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return storage.Open(cfg.RepoRoot, dbPath, logger)
}

func genomeOutputPath(cfg *config.Config) string {
	path := cfg.Genome.OutputPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.RepoRoot, path)
	}
	return path
}

func saveGenomeToDisk(cfg *config.Config, g *genome.Genome) error {
	data, err := genome.Save(g, genome.ModeStandard, cfg.Genome.Gzip)
	if err != nil {
		return err
	}
	return os.WriteFile(genomeOutputPath(cfg), data, 0o644)
}

func loadGenomeFromDisk(cfg *config.Config) (*genome.Genome, error) {
	data, err := os.ReadFile(genomeOutputPath(cfg))
	if err != nil {
		return nil, err
	}
	return genome.Load(data)
}
