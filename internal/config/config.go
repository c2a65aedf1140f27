// Package config loads the engine's layered configuration: built-in
// defaults, then .repogenome/config.yaml, then environment variables,
// then CLI flags, in ascending precedence, via github.com/spf13/viper.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the complete engine configuration.
type Config struct {
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	Analyzers  AnalyzersConfig  `json:"analyzers" mapstructure:"analyzers"`
	Extractor  ExtractorConfig  `json:"extractor" mapstructure:"extractor"`
	Subsystems SubsystemsConfig `json:"subsystems" mapstructure:"subsystems"`
	Genome     GenomeConfig     `json:"genome" mapstructure:"genome"`
	Query      QueryConfig      `json:"query" mapstructure:"query"`
	Context    ContextConfig    `json:"context" mapstructure:"context"`
	Cache      CacheConfig      `json:"cache" mapstructure:"cache"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// AnalyzersConfig controls which analyzer capabilities are enabled.
type AnalyzersConfig struct {
	TreeSitter bool     `json:"treeSitter" mapstructure:"treeSitter"`
	SCIP       bool     `json:"scip" mapstructure:"scip"`
	SCIPIndex  string   `json:"scipIndexPath" mapstructure:"scipIndexPath"`
	Config     bool     `json:"config" mapstructure:"config"`
	Ignore     []string `json:"ignore" mapstructure:"ignore"`
}

// ExtractorConfig controls the structural extractor's concurrency.
type ExtractorConfig struct {
	Workers int `json:"workers" mapstructure:"workers"`
}

// SubsystemsConfig toggles each auxiliary subsystem independently (§4.4).
type SubsystemsConfig struct {
	FlowWeaver  bool `json:"flowWeaver" mapstructure:"flowWeaver"`
	IntentAtlas bool `json:"intentAtlas" mapstructure:"intentAtlas"`
	ChronoMap   bool `json:"chronoMap" mapstructure:"chronoMap"`
	ContractLens bool `json:"contractLens" mapstructure:"contractLens"`
	TestGalaxy  bool `json:"testGalaxy" mapstructure:"testGalaxy"`
	SecretsLens bool `json:"secretsLens" mapstructure:"secretsLens"`
}

// GenomeConfig controls persistence defaults.
type GenomeConfig struct {
	OutputPath        string `json:"outputPath" mapstructure:"outputPath"`
	Gzip              bool   `json:"gzip" mapstructure:"gzip"`
	MaxSummaryLength  int    `json:"maxSummaryLength" mapstructure:"maxSummaryLength"`
	HotspotTopK       int    `json:"hotspotTopK" mapstructure:"hotspotTopK"`
}

// QueryConfig controls query engine defaults (§4.8).
type QueryConfig struct {
	DefaultPageSize int `json:"defaultPageSize" mapstructure:"defaultPageSize"`
	MaxPageSize     int `json:"maxPageSize" mapstructure:"maxPageSize"`
	CacheTTLSeconds int `json:"cacheTtlSeconds" mapstructure:"cacheTtlSeconds"`
	CacheMaxEntries int `json:"cacheMaxEntries" mapstructure:"cacheMaxEntries"`
}

// ContextConfig controls the context assembler defaults (§4.9).
type ContextConfig struct {
	DefaultBudgetTokens int `json:"defaultBudgetTokens" mapstructure:"defaultBudgetTokens"`
	FoldFloor           float64 `json:"foldFloor" mapstructure:"foldFloor"`
}

// CacheConfig controls the SQLite-backed cache/session store location.
type CacheConfig struct {
	DBPath string `json:"dbPath" mapstructure:"dbPath"`
}

// LoggingConfig controls the ambient logger.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Analyzers: AnalyzersConfig{
			TreeSitter: true,
			SCIP:       false,
			Config:     true,
			Ignore:     []string{".git", ".repogenome", "node_modules", "vendor", "dist", "build"},
		},
		Extractor: ExtractorConfig{Workers: 8},
		Subsystems: SubsystemsConfig{
			FlowWeaver:   true,
			IntentAtlas:  true,
			ChronoMap:    true,
			ContractLens: true,
			TestGalaxy:   true,
			SecretsLens:  true,
		},
		Genome: GenomeConfig{
			OutputPath:       "repogenome.json",
			Gzip:             false,
			MaxSummaryLength: 280,
			HotspotTopK:      10,
		},
		Query: QueryConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
			CacheTTLSeconds: 300,
			CacheMaxEntries: 1000,
		},
		Context: ContextConfig{
			DefaultBudgetTokens: 8000,
			FoldFloor:           0.15,
		},
		Cache: CacheConfig{DBPath: ".repogenome/cache.db"},
		Logging: LoggingConfig{Format: "human", Level: "info"},
	}
}

// Load reads configuration for repoRoot, layering
// .repogenome/config.yaml over the built-in defaults, then environment
// variables prefixed REPOGENOME_.
func Load(repoRoot string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.RepoRoot = repoRoot

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(repoRoot, ".repogenome"))
	v.SetEnvPrefix("REPOGENOME")
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.RepoRoot = repoRoot
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("analyzers.treeSitter", cfg.Analyzers.TreeSitter)
	v.SetDefault("analyzers.scip", cfg.Analyzers.SCIP)
	v.SetDefault("analyzers.config", cfg.Analyzers.Config)
	v.SetDefault("analyzers.ignore", cfg.Analyzers.Ignore)
	v.SetDefault("extractor.workers", cfg.Extractor.Workers)
	v.SetDefault("subsystems.flowWeaver", cfg.Subsystems.FlowWeaver)
	v.SetDefault("subsystems.intentAtlas", cfg.Subsystems.IntentAtlas)
	v.SetDefault("subsystems.chronoMap", cfg.Subsystems.ChronoMap)
	v.SetDefault("subsystems.contractLens", cfg.Subsystems.ContractLens)
	v.SetDefault("subsystems.testGalaxy", cfg.Subsystems.TestGalaxy)
	v.SetDefault("subsystems.secretsLens", cfg.Subsystems.SecretsLens)
	v.SetDefault("genome.outputPath", cfg.Genome.OutputPath)
	v.SetDefault("genome.gzip", cfg.Genome.Gzip)
	v.SetDefault("genome.maxSummaryLength", cfg.Genome.MaxSummaryLength)
	v.SetDefault("genome.hotspotTopK", cfg.Genome.HotspotTopK)
	v.SetDefault("query.defaultPageSize", cfg.Query.DefaultPageSize)
	v.SetDefault("query.maxPageSize", cfg.Query.MaxPageSize)
	v.SetDefault("query.cacheTtlSeconds", cfg.Query.CacheTTLSeconds)
	v.SetDefault("query.cacheMaxEntries", cfg.Query.CacheMaxEntries)
	v.SetDefault("context.defaultBudgetTokens", cfg.Context.DefaultBudgetTokens)
	v.SetDefault("context.foldFloor", cfg.Context.FoldFloor)
	v.SetDefault("cache.dbPath", cfg.Cache.DBPath)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
}
