package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Re-analyze changed files and merge an incremental delta into the on-disk Genome",
	RunE:  runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	logger := mustLogger(cfg, false)
	eng := buildEngine(cfg, logger)

	prior, err := loadGenomeFromDisk(cfg)
	if err != nil {
		return fmt.Errorf("no prior genome at %s, run scan first: %w", genomeOutputPath(cfg), err)
	}

	next, changes, err := eng.Coordinator().Run(context.Background(), prior)
	if err != nil {
		return err
	}
	if err := saveGenomeToDisk(cfg, next); err != nil {
		return err
	}

	fmt.Printf("updated: %d added, %d modified, %d removed -> %s\n",
		len(changes.Added), len(changes.Modified), len(changes.Removed), genomeOutputPath(cfg))
	return nil
}
