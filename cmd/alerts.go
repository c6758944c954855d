package cmd

import (
	"context"
	"log"

	"rental-inventory/core/config"
	"rental-inventory/core/database"
	"rental-inventory/core/logger"
	"rental-inventory/core/storage"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/health"
	"rental-inventory/feature/inventory"
	"rental-inventory/feature/ledger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pruneResolved bool

// alertsCmd runs health detection. Scheduled after a scan/correlate cycle
// so it never alerts on transient states.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Run health detection over the current inventory",
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

		ctx := context.Background()
		catalogSvc := catalog.NewService(db, logg)
		ledgerSvc := ledger.NewService(db, logg, ledger.NewProcessor(db, logg, cfg.Server.ScanWorkers), catalogSvc)
		inventorySvc := inventory.NewService(db, logg, cfg.Rules, 0)
		generator := health.NewGenerator(db, logg, cfg.Rules, ledgerSvc, inventorySvc)
		svc := health.NewService(db, logg, generator, store, cfg.Storage.Bucket)

		if _, err := svc.Run(ctx); err != nil {
			logg.Fatal("Health detection failed", zap.Error(err))
		}

		if pruneResolved {
			pruned, err := svc.PruneResolved(ctx)
			if err != nil {
				logg.Fatal("Pruning resolved alerts failed", zap.Error(err))
			}
			logg.Info("Resolved alerts pruned", zap.Int64("pruned", pruned))
		}
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&pruneResolved, "prune", false, "delete resolved alerts past retention")
	RootCmd.AddCommand(alertsCmd)
}
