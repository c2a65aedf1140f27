package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"repogenome/internal/genome"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a full scan of the repository and write its Genome to disk",
	RunE:  runScan,
}

var scipIndexFlag string

func init() {
	scanCmd.Flags().StringVar(&scipIndexFlag, "scip-index", "", "path to a pre-built SCIP index to fold in alongside the tree-sitter analyzers")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	if scipIndexFlag != "" {
		cfg.Analyzers.SCIP = true
		cfg.Analyzers.SCIPIndex = scipIndexFlag
	}
	logger := mustLogger(cfg, false)
	eng := buildEngine(cfg, logger)

	g, err := eng.FullScan(context.Background())
	if err != nil {
		return err
	}
	if err := genome.Validate(g); err != nil {
		return fmt.Errorf("scanned genome failed validation: %w", err)
	}
	if err := saveGenomeToDisk(cfg, g); err != nil {
		return err
	}

	fmt.Printf("scanned %d nodes, %d edges -> %s\n", len(g.Nodes), len(g.Edges), genomeOutputPath(cfg))
	return nil
}
