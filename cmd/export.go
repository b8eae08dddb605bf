package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bolt-support/insights-service/internal/config"
	"github.com/bolt-support/insights-service/internal/dataset"
	"github.com/bolt-support/insights-service/internal/export"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered view to a CSV or XLSX file without starting the server",
	RunE:  runExport,
}

var (
	exportOut      string
	exportFormat   string
	exportCategory string
	exportReview   string
	exportFrom     string
	exportTo       string
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: timestamped name in the working directory)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "filter by category")
	exportCmd.Flags().StringVar(&exportReview, "review", "", "all, flagged or auto")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "created on or after (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "created on or before (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if exportFormat != "csv" && exportFormat != "xlsx" {
		return fmt.Errorf("format must be csv or xlsx, got %q", exportFormat)
	}

	filter := dataset.Filter{Category: exportCategory}
	if filter.Review, err = dataset.ParseReviewStatus(exportReview); err != nil {
		return err
	}
	if filter.From, err = dataset.ParseDate(exportFrom); err != nil {
		return err
	}
	if filter.To, err = dataset.ParseDate(exportTo); err != nil {
		return err
	}

	loader := dataset.NewLoader(cfg.DateLayout)
	tickets, err := loader.Load(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	view := filter.Apply(tickets)
	log.Printf("export: %d of %d records match the filter", len(view), len(tickets))

	out := exportOut
	if out == "" {
		out = export.Filename(exportFormat, time.Now())
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if exportFormat == "xlsx" {
		err = export.WriteXLSX(f, view, cfg.DateLayout)
	} else {
		err = export.WriteCSV(f, view, cfg.DateLayout)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Printf("export: wrote %s", out)
	return nil
}
