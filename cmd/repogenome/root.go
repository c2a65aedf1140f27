// Command repogenome builds, serves, and queries a repository's Genome:
// a typed graph fusing structural, behavioral, temporal, and semantic
// views of a codebase. Grounded on the teacher's cmd/ckb layout: one
// cobra command per file, a package-level rootCmd, and shared
// repo-root/engine/logger construction helpers in a single "engine
// helper" file.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// engineVersion is this binary's version string, surfaced in
// initialize's serverInfo and --version output.
const engineVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "repogenome",
	Short:   "Repository intelligence engine: build, serve, and query a codebase Genome",
	Version: engineVersion,
}

var repoRootFlag string

func init() {
	rootCmd.SetVersionTemplate("repogenome version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "root", "", "repository root (default: current directory)")
}

func resolveRepoRoot() (string, error) {
	if repoRootFlag != "" {
		return repoRootFlag, nil
	}
	return os.Getwd()
}
