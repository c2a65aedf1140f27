package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"repogenome/internal/query"
)

var (
	queryText  string
	queryLimit int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a free-text query over the on-disk Genome and print matching nodes as JSON",
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&queryText, "q", "", "free-text query, e.g. 'type:function language:go'")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 50, "maximum results")
}

func runQuery(cmd *cobra.Command, args []string) error {
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

	engine := query.New(g, nil, nil)
	result, err := engine.Filter(query.FilterQuery{
		Text:    queryText,
		Options: query.FilterOptions{Limit: queryLimit},
	})
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
