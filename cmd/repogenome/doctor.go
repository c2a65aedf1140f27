package main

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"repogenome/internal/capability/historysrc"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and environment issues",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	fmt.Printf("repo root: %s\n", repoRoot)

	cfg, err := loadConfig(repoRoot)
	if err != nil {
		fmt.Printf("[FAIL] config: %v\n", err)
		return err
	}
	fmt.Println("[ OK ] config loaded")

	if _, err := exec.LookPath("git"); err != nil {
		fmt.Println("[WARN] git not found on PATH; chrono/history subsystem will be a no-op")
	} else {
		fmt.Println("[ OK ] git found")
	}

	logger := mustLogger(cfg, false)
	history := historysrc.New(repoRoot, logger)
	if history.IsAvailable(context.Background()) {
		fmt.Println("[ OK ] repository history is readable")
	} else {
		fmt.Println("[WARN] repository history is not available (not a git repo, or no commits)")
	}

	if _, err := loadGenomeFromDisk(cfg); err != nil {
		fmt.Printf("[WARN] no genome on disk at %s; run `repogenome scan`\n", genomeOutputPath(cfg))
	} else {
		fmt.Printf("[ OK ] genome present at %s\n", genomeOutputPath(cfg))
	}

	return nil
}
