package cmd

import (
	"context"
	"log"

	"rental-inventory/core/config"
	"rental-inventory/core/database"
	"rental-inventory/core/logger"

	"rental-inventory/feature/ledger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanCmd applies pending scan events as a batch job. The same processor
// backs the HTTP apply endpoint; the command exists so a scheduler can
// drive ingestion without the server running.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Apply pending scan events to the unit ledger",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		processor := ledger.NewProcessor(db, logg, cfg.Server.ScanWorkers)
		summary, err := processor.ApplyPending(context.Background())
		if err != nil {
			logg.Fatal("Scan event application failed", zap.Error(err))
		}

		logg.Info("Scan events applied",
			zap.Int("processed", summary.Processed),
			zap.Int("applied", summary.Applied),
			zap.Int("discovered", summary.Discovered),
			zap.Int("stale", summary.Stale),
			zap.Int("duplicates", summary.Duplicates),
			zap.Int("anomalies", summary.Anomalies),
			zap.Int("rejected", summary.Rejected),
		)
	},
}

func init() {
	RootCmd.AddCommand(scanCmd)
}
