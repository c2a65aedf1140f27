package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"repogenome/internal/genome"
	"repogenome/internal/incremental"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the repository for changes and keep the on-disk Genome up to date",
	Long: `Watch runs a full scan, then subscribes to filesystem change events
and applies a debounced incremental update after each quiet period,
saving the result back to disk on every update.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	initial, err := loadGenomeFromDisk(cfg)
	if err != nil {
		fmt.Println("no genome on disk, running an initial scan...")
		initial, err = eng.FullScan(context.Background())
		if err != nil {
			return err
		}
		if err := saveGenomeToDisk(cfg, initial); err != nil {
			return err
		}
	}

	watcher := incremental.NewWatcher(eng.Coordinator(), repoRoot, logger, cfg.Analyzers.Ignore, 500*time.Millisecond)
	watcher.OnUpdate = func(next *genome.Genome, cs incremental.ChangeSet) {
		if cs.IsEmpty() {
			return
		}
		if err := saveGenomeToDisk(cfg, next); err != nil {
			logger.Error("failed to persist genome after watch update", map[string]interface{}{"error": err.Error()})
			return
		}
		fmt.Printf("updated: %d added, %d modified, %d removed\n", len(cs.Added), len(cs.Modified), len(cs.Removed))
	}
	watcher.OnError = func(err error) {
		logger.Error("watch error", map[string]interface{}{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("watching for changes, press Ctrl-C to stop")
	return watcher.Run(ctx, initial)
}
