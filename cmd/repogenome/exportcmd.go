package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repogenome/internal/export"
)

var (
	exportFormat   string
	exportBasename string
	exportOutDir   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the on-disk Genome as JSON or a lossy graph projection",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json, graphml, dot, csv, cypher, or plantuml")
	exportCmd.Flags().StringVar(&exportBasename, "basename", "genome", "output file basename, without extension")
	exportCmd.Flags().StringVar(&exportOutDir, "out", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	g, err := loadGenomeFromDisk(cfg)
	if err != nil {
		return err
	}

	result, err := export.New(g).Export(export.Format(exportFormat), exportBasename)
	if err != nil {
		return err
	}
	for name, content := range result.Files {
		path := filepath.Join(exportOutDir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}
