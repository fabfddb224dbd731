package main

import (
	"context"
	"fmt"
	"time"

	"github.com/graphlink/graphlink-go/internal/ingestion"
	"github.com/graphlink/graphlink-go/internal/storage"
	"github.com/spf13/cobra"
)

var ingestWorkers int

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Scan a directory of friend-list CSV exports into the graph database",
	Long: `Scan a directory for friend-list CSV exports and merge each one into
the graph database. Every file is one unit: the owner profile comes
from the filename, the friends from the rows. Units are processed in
parallel and re-running over the same files changes nothing.

Examples:
  graphlink ingest                # scan the configured input directory
  graphlink ingest ./exports      # scan a specific directory
  graphlink ingest -w 4 ./exports # limit the worker count`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVarP(&ingestWorkers, "workers", "w", 0, "parallel workers (default: one per CPU)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir := cfg.Ingest.InputDir
	if len(args) == 1 {
		dir = args[0]
	}

	workers := cfg.Ingest.Workers
	if ingestWorkers > 0 {
		workers = ingestWorkers
	}

	store, err := storage.Open(cfg.Storage.Type, cfg.Storage.DSN(), logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	engine := ingestion.NewEngine(store, logger)
	reader := ingestion.NewUnitReader(cfg.Ingest.OwnerURLTemplate)
	orch := ingestion.NewOrchestrator(engine, reader, logger, workers)

	report, err := orch.IngestDirectory(ctx, dir)
	if err != nil {
		return err
	}

	fmt.Printf("Ingestion run %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	fmt.Printf("  Units:        %d (%d failed)\n", report.Units, report.Failed)
	fmt.Printf("  Profiles:     %d touched\n", report.Profiles)
	fmt.Printf("  Friendships:  %d touched\n", report.Edges)
	fmt.Printf("  Skipped rows: %d\n", report.SkippedRows)
	return nil
}
