package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"repogenome/internal/genome"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the on-disk Genome against its structural invariants",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	if err := genome.Validate(g); err != nil {
		fmt.Printf("invalid: %v\n", err)
		return err
	}
	fmt.Println("valid")
	return nil
}
