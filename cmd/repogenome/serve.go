package main

import (
	"github.com/spf13/cobra"

	"repogenome/internal/genome"
	"repogenome/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stdio MCP server, exposing tools and resources to an LLM agent",
	Long: `Start the Model Context Protocol server.

The server communicates over stdin/stdout using newline-delimited
JSON-RPC 2.0. Logs go to stderr since stdout is reserved for the
protocol. It is typically launched by an MCP client, not run directly
by a user.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	logger := mustLogger(cfg, true)
	eng := buildEngine(cfg, logger)

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	server := mcp.NewServer(engineVersion, eng, db, logger)
	server.Persist = func(g *genome.Genome) error { return saveGenomeToDisk(cfg, g) }

	if prior, err := loadGenomeFromDisk(cfg); err == nil {
		server.LoadGenome(prior)
		logger.Info("loaded genome from disk", map[string]interface{}{"path": genomeOutputPath(cfg)})
	} else {
		logger.Info("no genome on disk; call the scan tool before any other tool", map[string]interface{}{"path": genomeOutputPath(cfg)})
	}

	return server.Start()
}
