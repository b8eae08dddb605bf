package cmd

import (
	"fmt"

	"github.com/bolt-support/insights-service/internal/config"
	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/stats"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the export and print summary statistics",
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	loader := dataset.NewLoader(cfg.DateLayout)
	tickets, err := loader.Load(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	s := stats.Summarize(tickets)
	fmt.Printf("file:       %s\n", cfg.DataFile)
	fmt.Printf("total:      %d\n", s.Total)
	fmt.Printf("flagged:    %d (%.1f%%)\n", s.Flagged, s.FlaggedPct)
	fmt.Printf("resolved:   %d (%.1f%%)\n", s.Resolved, s.ResolvedPct)
	fmt.Printf("categories: %d\n", s.Categories)
	fmt.Println()
	for _, cc := range stats.CountByCategory(tickets) {
		fmt.Printf("  %-40s %d\n", cc.Category, cc.Count)
	}
	return nil
}
