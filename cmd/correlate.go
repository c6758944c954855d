package cmd

import (
	"context"
	"log"

	"rental-inventory/core/config"
	"rental-inventory/core/database"
	"rental-inventory/core/logger"
	"rental-inventory/core/storage"

	"rental-inventory/feature/correlation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// correlateCmd runs one full correlation recompute and archives the run
// report. Scheduled after catalog import and scan application.
var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Recompute the catalog-to-tracking correlation set",
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
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		engine := correlation.NewEngine(db, logg, cfg.Rules)
		svc := correlation.NewService(db, logg, engine, store, cfg.Storage.Bucket)

		summary, err := svc.Run(context.Background())
		if err != nil {
			logg.Fatal("Correlation run failed", zap.Error(err))
		}
		if len(summary.FailedChunks) > 0 {
			logg.Warn("Correlation run finished with failed chunks",
				zap.Strings("chunks", summary.FailedChunks))
		}
	},
}

func init() {
	RootCmd.AddCommand(correlateCmd)
}
