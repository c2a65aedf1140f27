package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade an on-disk Genome document to the schema version this engine writes",
	Long: `Migrate loads a Genome document written by an older engine version,
raising its schema_version to the one this engine currently writes and
re-saving it in place. A document already at or ahead of the current
version is left untouched.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}

	path := genomeOutputPath(cfg)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := genome.Load(data)
	if err != nil {
		return err
	}

	from := g.Metadata.SchemaVersion
	if from > genome.CurrentSchemaVersion {
		return rgerrors.New(rgerrors.Stale, fmt.Sprintf(
			"genome schema version %d is newer than this engine's %d; upgrade the engine instead",
			from, genome.CurrentSchemaVersion))
	}
	if from == genome.CurrentSchemaVersion {
		fmt.Printf("already at schema version %d, nothing to do\n", from)
		return nil
	}

	g.Metadata.SchemaVersion = genome.CurrentSchemaVersion
	if err := genome.Validate(g); err != nil {
		return fmt.Errorf("migrated genome failed validation: %w", err)
	}
	if err := saveGenomeToDisk(cfg, g); err != nil {
		return err
	}

	fmt.Printf("migrated schema version %d -> %d\n", from, genome.CurrentSchemaVersion)
	return nil
}
