package cmd

import (
	"log"

	"rental-inventory/core/audit"
	"rental-inventory/core/config"
	"rental-inventory/core/database"
	"rental-inventory/core/logger"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/correlation"
	"rental-inventory/feature/health"
	"rental-inventory/feature/ledger"
	"rental-inventory/feature/stores"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verifySchema bool

// expectedTables maps every table to the columns the models declare. Used
// by --verify to report drift without touching the schema.
var expectedTables = map[string][]string{
	"store_correlations": {
		"tracking_store_code", "pos_store_code", "name", "tracking_enabled",
		"active", "created_at", "updated_at",
	},
	"equipment_records": {
		"item_num", "name", "category", "qty", "home_store_code",
		"current_store_code", "rate", "inactive", "created_at", "updated_at",
	},
	"inventory_units": {
		"tag_id", "tracking_class_id", "correlated_item_num", "status",
		"store_code", "bin_location", "quality", "last_scan_at",
		"last_event_id", "last_contract_ref", "created_at", "updated_at",
	},
	"scan_events": {
		"id", "tag_id", "event_type", "timestamp", "contract_ref", "actor",
		"attributes", "applied_at", "created_at",
	},
	"equipment_correlations": {
		"id", "item_num", "tracking_class_id", "confidence_score",
		"quantity_difference", "name_match_type", "created_at", "superseded_at",
	},
	"tracking_classes": {
		"class_id", "name", "created_at", "updated_at",
	},
	"health_alerts": {
		"id", "subject_key", "alert_type", "severity", "status", "detail",
		"active", "created_at", "last_seen_at", "resolved_at",
	},
	"audit_entries": {
		"id", "table_name", "record_id", "field", "old_value", "new_value",
		"actor", "timestamp",
	},
}

// migrateCmd creates or updates the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs the schema migration for every model. With --verify no schema is
touched; the live schema is compared against the models and drift is
reported instead.`,
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

		if verifySchema {
			drifts, err := database.VerifyTables(db, expectedTables)
			if err != nil {
				logg.Fatal("Schema verification failed", zap.Error(err))
			}
			if len(drifts) == 0 {
				logg.Info("Schema matches the models")
				return
			}
			for _, drift := range drifts {
				logg.Warn("Schema drift",
					zap.String("table", drift.Table),
					zap.Bool("missing", drift.Missing),
					zap.Strings("missing_columns", drift.MissingColumns),
					zap.Strings("extra_columns", drift.ExtraColumns),
				)
			}
			logg.Fatal("Schema does not match the models", zap.Int("tables", len(drifts)))
		}

		err = db.AutoMigrate(
			&stores.StoreCorrelation{},
			&catalog.EquipmentRecord{},
			&ledger.InventoryUnit{},
			&ledger.ScanEvent{},
			&correlation.EquipmentCorrelation{},
			&correlation.TrackingClass{},
			&health.HealthAlert{},
			&audit.Entry{},
		)
		if err != nil {
			logg.Fatal("Migration failed", zap.Error(err))
		}
		logg.Info("Migration complete")
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&verifySchema, "verify", false, "report schema drift instead of migrating")
	RootCmd.AddCommand(migrateCmd)
}
